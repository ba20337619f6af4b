// Package references models JSON Reference objects ({"$ref": "<uri>"}) found in
// JSON Item trees: recognising them, classifying them and normalising their URIs.
package references

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
)

// RefKey is the key that makes an object a Reference Object.
const RefKey = "$ref"

type Reference string

var _ fmt.Stringer = (*Reference)(nil)

// GetURI returns the part of the reference before the fragment.
func (r Reference) GetURI() string {
	parts := strings.SplitN(string(r), "#", 2)
	return strings.TrimSpace(parts[0])
}

func (r Reference) HasJSONPointer() bool {
	return strings.Contains(string(r), "#")
}

// GetFragment returns the fragment including its leading "#", or "" when the
// reference has none.
func (r Reference) GetFragment() string {
	_, fragment, ok := strings.Cut(string(r), "#")
	if !ok {
		return ""
	}
	return "#" + strings.TrimSpace(fragment)
}

// GetJSONPointer returns the percent-decoded JSON pointer held in the fragment.
func (r Reference) GetJSONPointer() jsonpointer.JSONPointer {
	fragment := strings.TrimPrefix(r.GetFragment(), "#")
	if fragment == "" {
		return ""
	}

	// %25 and friends are valid in a URI fragment but not in a pointer
	if decoded, err := url.PathUnescape(fragment); err == nil {
		fragment = decoded
	}

	return jsonpointer.JSONPointer(fragment)
}

// IsLocal reports whether the reference points into the document it appears in.
func (r Reference) IsLocal() bool {
	return strings.HasPrefix(string(r), "#")
}

func (r Reference) Validate() error {
	if r == "" {
		return nil
	}

	uri := r.GetURI()

	if uri != "" {
		if _, err := url.Parse(uri); err != nil {
			return fmt.Errorf("invalid reference URI: %w", err)
		}
	}

	if r.HasJSONPointer() {
		jp := r.GetJSONPointer()
		if jp == "" {
			// "doc.yaml#" addresses the whole document
			return nil
		}

		if err := jp.Validate(); err != nil {
			return fmt.Errorf("invalid reference JSON pointer: %w", err)
		}
	}

	return nil
}

func (r Reference) String() string {
	return string(r)
}
