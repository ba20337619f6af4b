package utils

import (
	"errors"
	"fmt"
	"net/url"
	pathpkg "path"
	"path/filepath"
	"strings"
)

// ReferenceType represents the type of reference string
type ReferenceType int

const (
	ReferenceTypeUnknown ReferenceType = iota
	ReferenceTypeURL
	ReferenceTypeFilePath
	ReferenceTypeFragment
)

// ReferenceClassification holds the result of classifying a reference string
type ReferenceClassification struct {
	Type       ReferenceType
	IsURL      bool
	IsFile     bool
	IsFragment bool
	Original   string
	ParsedURL  *url.URL // only set for URLs
}

// ClassifyReference determines if a string represents a URL, file path, or JSON Pointer fragment.
func ClassifyReference(ref string) (*ReferenceClassification, error) {
	if ref == "" {
		return nil, errors.New("empty reference")
	}

	result := &ReferenceClassification{
		Original: ref,
	}

	// Windows drive letters parse as a one letter scheme
	if IsWindowsAbsolutePath(ref) {
		result.Type = ReferenceTypeFilePath
		result.IsFile = true
		return result, nil
	}

	u, err := ParseURLCached(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid reference format: %w", err)
	}

	if u.Scheme != "" {
		result.Type = ReferenceTypeURL
		result.IsURL = true
		result.ParsedURL = u
		return result, nil
	}

	if strings.HasPrefix(ref, "#") {
		result.Type = ReferenceTypeFragment
		result.IsFragment = true
		return result, nil
	}

	// anything else is a path, relative or absolute
	result.Type = ReferenceTypeFilePath
	result.IsFile = true
	return result, nil
}

// ToFileURL converts an OS path into an absolute file:// URL, resolving
// relative paths against cwd.
func ToFileURL(path, cwd string) *url.URL {
	switch {
	case IsWindowsAbsolutePath(path):
		path = pathpkg.Clean(strings.ReplaceAll(path, "\\", "/"))
	case filepath.IsAbs(path):
		path = filepath.ToSlash(filepath.Clean(path))
	default:
		path = filepath.ToSlash(filepath.Join(cwd, path))
	}
	if !strings.HasPrefix(path, "/") {
		// C:/x becomes file:///C:/x
		path = "/" + path
	}
	return &url.URL{Scheme: "file", Path: path}
}

// FromFileURL returns the OS path for a file:// URL.
func FromFileURL(u *url.URL) string {
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// IsWindowsAbsolutePath reports whether path is a drive letter or UNC path.
func IsWindowsAbsolutePath(path string) bool {
	if len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		c := path[0] | 0x20
		return c >= 'a' && c <= 'z'
	}
	return strings.HasPrefix(path, "\\\\")
}
