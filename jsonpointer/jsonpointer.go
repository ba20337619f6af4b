// Package jsonpointer provides JSONPointer an implementation of RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
// and Navigation, an immutable location within a JSON document tree.
package jsonpointer

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/errors"
)

const (
	// ErrNotFound is returned when the target is not found.
	ErrNotFound = errors.Error("not found")
	// ErrInvalidPath is returned when the path is invalid.
	ErrInvalidPath = errors.Error("invalid path")
	// ErrValidation is returned when the jsonpointer is invalid.
	ErrValidation = errors.Error("validation error")
)

// JSONPointer represents a JSON Pointer value as defined by RFC6901 https://datatracker.ietf.org/doc/html/rfc6901
type JSONPointer string

func (j JSONPointer) String() string {
	return string(j)
}

// Validate will validate the JSONPointer is valid as per RFC6901.
func (j JSONPointer) Validate() error {
	_, err := j.getNavigationStack()
	if err != nil {
		return ErrValidation.Wrap(err)
	}
	return nil
}

// Parts returns the unescaped reference tokens of the pointer.
func (j JSONPointer) Parts() ([]string, error) {
	stack, err := j.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	parts := make([]string, 0, len(stack))
	for _, part := range stack {
		parts = append(parts, part.unescapeValue())
	}
	return parts, nil
}

// KeyNavigable is implemented by object types that can be navigated by key.
type KeyNavigable interface {
	NavigateWithKey(key string) (any, error)
}

// IndexNavigable is implemented by sequence types that can be navigated by index.
type IndexNavigable interface {
	NavigateWithIndex(index int) (any, error)
}

// GetTarget will evaluate the JSONPointer against the source and return the target.
// An empty pointer targets the source itself.
func GetTarget(source any, pointer JSONPointer) (any, error) {
	if pointer == "" {
		return source, nil
	}

	stack, err := pointer.getNavigationStack()
	if err != nil {
		return nil, ErrValidation.Wrap(err)
	}

	current := source
	currentPath := ""

	for _, part := range stack {
		currentPath = buildPath(currentPath, part)

		current, err = getTarget(current, part, currentPath)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

// PartsToJSONPointer will convert the exploded parts of a JSONPointer to a JSONPointer.
func PartsToJSONPointer(parts []string) JSONPointer {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteByte('/')
		sb.WriteString(escape(part))
	}
	return JSONPointer(sb.String())
}

func getTarget(source any, part navigationPart, currentPath string) (any, error) {
	switch s := source.(type) {
	case KeyNavigable:
		v, err := s.NavigateWithKey(part.unescapeValue())
		if err != nil {
			return nil, ErrNotFound.Wrap(fmt.Errorf("%w at %s", err, currentPath))
		}
		return v, nil
	case map[string]any:
		v, ok := s[part.unescapeValue()]
		if !ok {
			return nil, ErrNotFound.Wrap(fmt.Errorf("key %s not found in map at %s", part.unescapeValue(), currentPath))
		}
		return v, nil
	case IndexNavigable:
		if part.Type != partTypeIndex {
			return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected index, got %s at %s", part.Type, currentPath))
		}
		v, err := s.NavigateWithIndex(part.getIndex())
		if err != nil {
			return nil, ErrNotFound.Wrap(fmt.Errorf("%w at %s", err, currentPath))
		}
		return v, nil
	case []any:
		if part.Type != partTypeIndex {
			return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected index, got %s at %s", part.Type, currentPath))
		}
		index := part.getIndex()
		if index < 0 || index >= len(s) {
			return nil, ErrNotFound.Wrap(fmt.Errorf("index %d out of range for slice of length %d at %s", index, len(s), currentPath))
		}
		return s[index], nil
	default:
		return nil, ErrInvalidPath.Wrap(fmt.Errorf("expected object or array, got %T at %s", source, currentPath))
	}
}

func buildPath(currentPath string, currentPart navigationPart) string {
	return currentPath + "/" + currentPart.Value
}

// EscapeString escapes a string for use as a reference token in a JSON pointer according to RFC6901.
// It replaces "~" with "~0" and "/" with "~1" as required by the specification.
func EscapeString(s string) string {
	return escape(s)
}

// UnescapeString reverses EscapeString.
func UnescapeString(s string) string {
	return unescape(s)
}

func escape(part string) string {
	return strings.ReplaceAll(strings.ReplaceAll(part, "~", "~0"), "/", "~1")
}

func unescape(part string) string {
	return strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
}
