// Package loader fetches, parses and memoizes the documents taking part in one
// resolution run.
package loader

import (
	"context"
	"net/url"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/yml"
)

// Document is a loaded document together with the node its URL's fragment addresses.
type Document struct {
	// Document is the root of the parsed document.
	Document any
	// URL is the absolute URL of the document, without fragment.
	URL *url.URL
	// Fragment is the fragment the document was requested with ("" when none).
	Fragment string
	// Item is the node at Fragment, or Document when there is no fragment.
	Item any
}

// Loader memoizes parsed documents by normalized, fragment-free URL. It is not
// safe for concurrent use.
type Loader struct {
	fetcher Fetcher
	docs    map[string]any
	fetches int
}

func New(fetcher Fetcher) *Loader {
	if fetcher == nil {
		fetcher = &DefaultFetcher{}
	}
	return &Loader{
		fetcher: fetcher,
		docs:    make(map[string]any),
	}
}

// Seed registers an in-memory document for u so it is never fetched.
func (l *Loader) Seed(u *url.URL, doc any) {
	l.docs[references.DocumentKey(u)] = doc
}

// Cached returns the document already loaded for u, if any.
func (l *Loader) Cached(u *url.URL) (any, bool) {
	doc, ok := l.docs[references.DocumentKey(u)]
	return doc, ok
}

// Len returns the number of distinct documents held.
func (l *Loader) Len() int {
	return len(l.docs)
}

// Fetches returns how many documents were actually fetched, cache hits excluded.
func (l *Loader) Fetches() int {
	return l.fetches
}

// Load returns the document at u, fetching and parsing it on first use. Fetch
// and parse failures are returned as *errors.DocumentLoadError.
func (l *Loader) Load(ctx context.Context, u *url.URL) (*Document, error) {
	docURL := references.DocumentURL(u)
	key := docURL.String()

	doc, ok := l.docs[key]
	if !ok {
		data, err := l.fetcher.Fetch(ctx, docURL)
		if err != nil {
			return nil, &errors.DocumentLoadError{URL: key, Cause: err}
		}
		l.fetches++

		doc, err = yml.Decode(data, key)
		if err != nil {
			return nil, &errors.DocumentLoadError{URL: key, Cause: err}
		}
		l.docs[key] = doc
	}

	fragment := references.Fragment(u)

	item := doc
	if references.ClassifyFragment(fragment) != references.KindWholeDocument {
		keys, err := jsonpointer.AsKeys(fragment)
		if err != nil {
			return nil, &errors.DocumentLoadError{URL: u.String(), Cause: err}
		}
		item, err = jsonpointer.GetTarget(doc, jsonpointer.PartsToJSONPointer(keys))
		if err != nil {
			return nil, &errors.DocumentLoadError{URL: u.String(), Cause: err}
		}
	}

	return &Document{
		Document: doc,
		URL:      docURL,
		Fragment: fragment,
		Item:     item,
	}, nil
}
