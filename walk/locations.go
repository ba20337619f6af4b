package walk

import (
	"strconv"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
)

const (
	// ErrTerminate is a sentinel error that can be returned from a VisitFunc to stop the walk early.
	// Replacements made before termination, including the one returned alongside ErrTerminate, are kept.
	ErrTerminate = errors.Error("terminate")
)

// LocationContext represents where a node sits within its parent.
type LocationContext struct {
	// Parent is the object or array holding the node.
	Parent      any
	ParentKey   *string
	ParentIndex *int
}

// Locations is the chain of location contexts from the walk root down to a node.
type Locations []LocationContext

// Segment returns the key, or the decimal index, of the location within its parent.
func (l LocationContext) Segment() string {
	switch {
	case l.ParentKey != nil:
		return *l.ParentKey
	case l.ParentIndex != nil:
		return strconv.Itoa(*l.ParentIndex)
	default:
		return ""
	}
}

// Navigation converts the locations to a Navigation from the walk root.
func (l Locations) Navigation() jsonpointer.Navigation {
	path := make([]string, 0, len(l))
	for _, location := range l {
		path = append(path, location.Segment())
	}
	return jsonpointer.FromPath(path)
}

// ToJSONPointer converts the locations to a JSON pointer.
func (l Locations) ToJSONPointer() jsonpointer.JSONPointer {
	return l.Navigation().Pointer()
}

// ParentKey returns the key of the innermost location, or "" when the node is
// the walk root or an array element.
func (l Locations) ParentKey() string {
	if len(l) == 0 || l[len(l)-1].ParentKey == nil {
		return ""
	}
	return *l[len(l)-1].ParentKey
}

// IsParent reports whether the node sits directly under key, looking through
// one level of array or map entry.
func (l Locations) IsParent(key string) bool {
	for i := len(l) - 1; i >= 0 && i >= len(l)-2; i-- {
		if l[i].ParentKey != nil && *l[i].ParentKey == key {
			return true
		}
	}
	return false
}

func (l Locations) with(parent any, key *string, index *int) Locations {
	return append(l[:len(l):len(l)], LocationContext{
		Parent:      parent,
		ParentKey:   key,
		ParentIndex: index,
	})
}
