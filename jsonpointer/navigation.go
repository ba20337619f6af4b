package jsonpointer

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

const componentsKey = "components"

// Navigation is an immutable location within a document tree, expressed as the
// ordered keys (array indices in decimal) leading to it from the document root.
type Navigation struct {
	path []string
}

// Root returns the Navigation of a document root.
func Root() Navigation {
	return Navigation{}
}

// FromPath returns a Navigation for the given segments.
func FromPath(path []string) Navigation {
	return Navigation{path: slices.Clone(path)}
}

// FromFragment parses a "#/a/b" style fragment into a Navigation.
func FromFragment(fragment string) (Navigation, error) {
	keys, err := AsKeys(fragment)
	if err != nil {
		return Navigation{}, err
	}
	return Navigation{path: keys}, nil
}

// With returns a new Navigation with segment appended. The receiver is not modified.
func (n Navigation) With(segment string) Navigation {
	path := make([]string, len(n.path), len(n.path)+1)
	copy(path, n.path)
	return Navigation{path: append(path, segment)}
}

// Path returns a copy of the ordered segments.
func (n Navigation) Path() []string {
	return append(make([]string, 0, len(n.path)), n.path...)
}

// Len returns the number of segments.
func (n Navigation) Len() int {
	return len(n.path)
}

// IsRoot reports whether the Navigation points at the document root.
func (n Navigation) IsRoot() bool {
	return len(n.path) == 0
}

// Pointer returns the RFC6901 pointer for the Navigation. The root is "".
func (n Navigation) Pointer() JSONPointer {
	return PartsToJSONPointer(n.path)
}

// AsFragment returns the URI fragment form of the Navigation, e.g. "#/paths/~1pets".
// Segments are pointer escaped and then percent encoded where a URI fragment requires it.
// The root yields "#".
func (n Navigation) AsFragment() string {
	var sb strings.Builder
	sb.WriteByte('#')
	for _, segment := range n.path {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(escape(segment)))
	}
	return sb.String()
}

// IsAtComponent reports whether the Navigation has the shape components/<section>/<name>.
func (n Navigation) IsAtComponent() bool {
	return len(n.path) == 3 && n.path[0] == componentsKey
}

// Component returns the section and name when IsAtComponent is true.
func (n Navigation) Component() (section, name string, ok bool) {
	if !n.IsAtComponent() {
		return "", "", false
	}
	return n.path[1], n.path[2], true
}

// Contains reports whether any segment equals segment.
func (n Navigation) Contains(segment string) bool {
	return slices.Contains(n.path, segment)
}

// HasPrefix reports whether the Navigation starts with the given segments.
func (n Navigation) HasPrefix(segments ...string) bool {
	if len(segments) > len(n.path) {
		return false
	}
	return slices.Equal(n.path[:len(segments)], segments)
}

// String returns the fragment form of the Navigation.
func (n Navigation) String() string {
	return n.AsFragment()
}

// AsKeys is the inverse of AsFragment: it parses a fragment ("#/a/b", "/a/b" or "#")
// into its unescaped segments.
func AsKeys(fragment string) ([]string, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return []string{}, nil
	}

	if !strings.HasPrefix(fragment, "/") {
		return nil, ErrValidation.Wrap(fmt.Errorf("fragment must start with /: %s", fragment))
	}

	raw := strings.Split(fragment[1:], "/")
	keys := make([]string, 0, len(raw))
	for _, part := range raw {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return nil, ErrValidation.Wrap(fmt.Errorf("invalid percent encoding in %q: %w", part, err))
		}
		keys = append(keys, unescape(decoded))
	}
	return keys, nil
}
