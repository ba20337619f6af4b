// Package clone deep copies JSON Item trees. Shared and cyclic nodes keep their
// shape in the copy: a node reached twice in the source is one node in the copy.
package clone

import (
	"fmt"
	"reflect"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// ErrUncloneable is returned for values that have no meaningful copy, such as funcs and channels.
const ErrUncloneable = errors.Error("value cannot be cloned")

type sliceKey struct {
	ptr uintptr
	len int
}

type cloner struct {
	maps   map[*sequencedmap.Map[string, any]]*sequencedmap.Map[string, any]
	goMaps map[uintptr]map[string]any
	slices map[sliceKey][]any
}

// Clone returns a deep copy of v.
func Clone(v any) (any, error) {
	c := &cloner{
		maps:   make(map[*sequencedmap.Map[string, any]]*sequencedmap.Map[string, any]),
		goMaps: make(map[uintptr]map[string]any),
		slices: make(map[sliceKey][]any),
	}
	return c.clone(v)
}

// MustClone is Clone for trees known to hold only JSON values.
func MustClone[T any](v T) T {
	out, err := Clone(v)
	if err != nil {
		panic(err)
	}
	return out.(T)
}

func (c *cloner) clone(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *sequencedmap.Map[string, any]:
		if t == nil {
			return t, nil
		}
		if existing, ok := c.maps[t]; ok {
			return existing, nil
		}

		out := sequencedmap.NewWithCapacity[string, any](t.Len())
		c.maps[t] = out

		for key, value := range t.All() {
			cv, err := c.clone(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out.Set(key, cv)
		}
		return out, nil
	case map[string]any:
		if t == nil {
			return t, nil
		}
		id := reflect.ValueOf(t).Pointer()
		if existing, ok := c.goMaps[id]; ok {
			return existing, nil
		}

		out := make(map[string]any, len(t))
		c.goMaps[id] = out

		for key, value := range t {
			cv, err := c.clone(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = cv
		}
		return out, nil
	case []any:
		return c.cloneSlice(t)
	case string, bool, int, int64, float64:
		return t, nil
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return v, nil
	default:
		return nil, ErrUncloneable.Wrap(fmt.Errorf("unsupported type %T", v))
	}
}

func (c *cloner) cloneSlice(s []any) (any, error) {
	if s == nil {
		return s, nil
	}
	if len(s) == 0 {
		return []any{}, nil
	}

	key := sliceKey{ptr: reflect.ValueOf(s).Pointer(), len: len(s)}
	if existing, ok := c.slices[key]; ok {
		return existing, nil
	}

	// elements are filled in place so a back-edge sees the same backing array
	out := make([]any, len(s))
	c.slices[key] = out

	for i, item := range s {
		cv, err := c.clone(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = cv
	}
	return out, nil
}
