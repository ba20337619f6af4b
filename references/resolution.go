package references

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/internal/utils"
)

// AbsoluteReferenceResult contains the result of resolving an absolute reference
type AbsoluteReferenceResult struct {
	// AbsoluteReference is the normalized absolute URL of the reference, fragment included.
	AbsoluteReference string
	// URL is the parsed form of AbsoluteReference.
	URL *url.URL
	// Classification classifies the URI part of the reference as written.
	Classification *utils.ReferenceClassification
}

// ResolveAbsoluteReference resolves ref against the absolute URL baseLocation.
// Relative paths, absolute paths and bare fragments are all made absolute; absolute URLs pass through.
func ResolveAbsoluteReference(ref Reference, baseLocation string) (*AbsoluteReferenceResult, error) {
	return ResolveAbsoluteReferenceCached(ref, baseLocation)
}

func resolveAbsoluteReferenceUncached(ref Reference, baseLocation string) (*AbsoluteReferenceResult, error) {
	base, err := utils.ParseURLCached(baseLocation)
	if err != nil {
		return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("invalid base location %q: %w", baseLocation, err))
	}
	if !base.IsAbs() {
		return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("base location %q is not absolute", baseLocation))
	}

	uri := ref.GetURI()

	var classification *utils.ReferenceClassification
	var target *url.URL

	if uri == "" {
		target = DocumentURL(base)
	} else {
		classification, err = utils.ClassifyReference(uri)
		if err != nil {
			return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("%s: %w", ref, err))
		}

		switch {
		case classification.IsURL:
			target = DocumentURL(classification.ParsedURL)
		case utils.IsWindowsAbsolutePath(uri):
			target = utils.ToFileURL(uri, "")
		default:
			rel, err := utils.ParseURLCached(strings.ReplaceAll(uri, "\\", "/"))
			if err != nil {
				return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("%s: %w", ref, err))
			}
			target = base.ResolveReference(rel)
		}
	}

	if ref.HasJSONPointer() {
		frag, err := url.Parse(ref.GetFragment())
		if err != nil {
			return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("%s: %w", ref, err))
		}
		target.Fragment = frag.Fragment
		target.RawFragment = frag.RawFragment
	} else {
		target.Fragment = ""
		target.RawFragment = ""
	}

	return &AbsoluteReferenceResult{
		AbsoluteReference: target.String(),
		URL:               target,
		Classification:    classification,
	}, nil
}

// NormalizeLocation turns a URL or an OS path into an absolute URL. Paths are
// resolved against cwd, or the process working directory when cwd is empty.
func NormalizeLocation(location, cwd string) (*url.URL, error) {
	classification, err := utils.ClassifyReference(location)
	if err != nil {
		return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("%s: %w", location, err))
	}

	switch {
	case classification.IsURL:
		u := *classification.ParsedURL
		return &u, nil
	case classification.IsFragment:
		return nil, errors.ErrInvalidReference.Wrap(fmt.Errorf("%s: a fragment is not a document location", location))
	}

	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return utils.ToFileURL(location, cwd), nil
}

// DocumentURL returns a copy of u without its fragment.
func DocumentURL(u *url.URL) *url.URL {
	stripped := *u
	stripped.Fragment = ""
	stripped.RawFragment = ""
	return &stripped
}

// DocumentKey returns the normalized, fragment-free string form of u used to
// key per-document state.
func DocumentKey(u *url.URL) string {
	return DocumentURL(u).String()
}

// Fragment returns the fragment of u including its leading "#", or "" when u has none.
func Fragment(u *url.URL) string {
	if u.Fragment == "" && u.RawFragment == "" {
		return ""
	}
	return "#" + u.EscapedFragment()
}
