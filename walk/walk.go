// Package walk traverses JSON Item trees, letting a visitor replace object
// nodes before their children are visited.
package walk

import (
	"context"
	"errors"

	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// VisitFunc is called for every object node in pre-order. The returned value
// replaces the node, and the walk descends into the replacement's children.
type VisitFunc func(ctx context.Context, node *sequencedmap.Map[string, any], loc Locations) (any, error)

// Walk visits every object reachable from node and returns the possibly
// replaced root. Children are replaced in place in their parents.
//
// Keys are snapshotted before descending, so keys a visitor adds to an object
// already being iterated are not visited and keys it removes are skipped.
// Walk does not detect cycles.
func Walk(ctx context.Context, node any, visit VisitFunc) (any, error) {
	result, err := walk(ctx, node, nil, visit)
	if errors.Is(err, ErrTerminate) {
		return result, nil
	}
	return result, err
}

func walk(ctx context.Context, node any, loc Locations, visit VisitFunc) (any, error) {
	if obj, ok := node.(*sequencedmap.Map[string, any]); ok && obj != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		replaced, err := visit(ctx, obj, loc)
		if err != nil {
			if errors.Is(err, ErrTerminate) {
				return replaced, err
			}
			return nil, err
		}
		node = replaced
	}

	switch t := node.(type) {
	case *sequencedmap.Map[string, any]:
		if t == nil {
			return t, nil
		}
		for _, key := range collectKeys(t) {
			child, ok := t.Get(key)
			if !ok || !isContainer(child) {
				continue
			}
			if err := walkChild(ctx, child, loc.with(t, &key, nil), visit); err != nil {
				return t, err
			}
		}
	case []any:
		for i := 0; i < len(t); i++ {
			if !isContainer(t[i]) {
				continue
			}
			if err := walkChild(ctx, t[i], loc.with(t, nil, &i), visit); err != nil {
				return t, err
			}
		}
	}

	return node, nil
}

func walkChild(ctx context.Context, child any, loc Locations, visit VisitFunc) error {
	replaced, err := walk(ctx, child, loc, visit)
	if err != nil && !errors.Is(err, ErrTerminate) {
		return err
	}
	if setErr := SetAtLocation(loc[len(loc)-1], replaced); setErr != nil {
		return setErr
	}
	return err
}

func collectKeys(m *sequencedmap.Map[string, any]) []string {
	keys := make([]string, 0, m.Len())
	for key := range m.Keys() {
		keys = append(keys, key)
	}
	return keys
}

func isContainer(v any) bool {
	switch v.(type) {
	case *sequencedmap.Map[string, any], []any:
		return true
	default:
		return false
	}
}
