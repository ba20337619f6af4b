package references

import (
	"strings"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// Kind classifies a node by the shape of its reference.
type Kind int

const (
	KindNotReference Kind = iota
	// KindLocal is a same-document reference ("#/...").
	KindLocal
	// KindWholeDocument is an external reference without a fragment.
	KindWholeDocument
	// KindComponent is an external reference to #/components/<section>/<name>.
	KindComponent
	// KindFragment is an external reference to any other pointer.
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindWholeDocument:
		return "whole-document"
	case KindComponent:
		return "component"
	case KindFragment:
		return "fragment"
	default:
		return "not-reference"
	}
}

// GetReference returns the reference and the object holding it when node is a
// Reference Object, that is an object with a string $ref.
func GetReference(node any) (Reference, *sequencedmap.Map[string, any], bool) {
	obj, ok := node.(*sequencedmap.Map[string, any])
	if !ok || obj == nil {
		return "", nil, false
	}

	v, ok := obj.Get(RefKey)
	if !ok {
		return "", nil, false
	}

	s, ok := v.(string)
	if !ok {
		return "", nil, false
	}

	return Reference(s), obj, true
}

// IsReference reports whether node is a Reference Object.
func IsReference(node any) bool {
	_, _, ok := GetReference(node)
	return ok
}

// IsSimple reports whether obj holds nothing but $ref.
func IsSimple(obj *sequencedmap.Map[string, any]) bool {
	return obj.Len() == 1 && obj.Has(RefKey)
}

// Classify classifies node once so callers can switch on the result.
func Classify(node any) Kind {
	ref, _, ok := GetReference(node)
	if !ok {
		return KindNotReference
	}
	return ClassifyReference(ref)
}

func ClassifyReference(ref Reference) Kind {
	if ref.IsLocal() {
		return KindLocal
	}
	return ClassifyFragment(ref.GetFragment())
}

// ClassifyFragment classifies the fragment of an external reference. "" "#"
// and "#/" all address the whole document.
func ClassifyFragment(fragment string) Kind {
	f := strings.TrimPrefix(fragment, "#")
	if f == "" || f == "/" {
		return KindWholeDocument
	}

	keys, err := jsonpointer.AsKeys(fragment)
	if err != nil {
		return KindFragment
	}

	section, name, ok := jsonpointer.FromPath(keys).Component()
	if !ok || section == "" || name == "" {
		return KindFragment
	}

	return KindComponent
}
