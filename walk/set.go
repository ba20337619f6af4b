package walk

import (
	"errors"
	"fmt"

	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// SetAtLocation replaces the node described by l within its parent.
func SetAtLocation(l LocationContext, value any) error {
	switch parent := l.Parent.(type) {
	case *sequencedmap.Map[string, any]:
		if l.ParentKey == nil {
			return errors.New("parent key is nil")
		}
		parent.Set(*l.ParentKey, value)
		return nil
	case map[string]any:
		if l.ParentKey == nil {
			return errors.New("parent key is nil")
		}
		parent[*l.ParentKey] = value
		return nil
	case []any:
		if l.ParentIndex == nil {
			return errors.New("parent index is nil")
		}
		if *l.ParentIndex < 0 || *l.ParentIndex >= len(parent) {
			return fmt.Errorf("index %d out of range for array of length %d", *l.ParentIndex, len(parent))
		}
		parent[*l.ParentIndex] = value
		return nil
	default:
		return fmt.Errorf("expected object or array parent, got %T", l.Parent)
	}
}
