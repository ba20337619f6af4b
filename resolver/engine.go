// Package resolver turns a multi-document API description, linked through JSON
// References across files and URLs, into a single self-contained document.
//
// Resolution is a fixpoint: every pass walks the document and inlines each
// external $ref it finds, whole documents, components and arbitrary fragments
// alike, until a pass changes nothing. Inlined components are merged into the
// root document's components, with name collisions handled by a ConflictStrategy.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/speakeasy-api/openapi-resolver/clone"
	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/loader"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/walk"
)

// Engine resolves one root document. It is not safe for concurrent use; create
// one Engine per document.
type Engine struct {
	uri      *url.URL
	document any

	fetcher       loader.DefaultFetcher
	customFetcher loader.Fetcher
	logger        Logger
	clock         func() time.Time
	cwd           string

	// documents loaded through API, kept across calls
	api *loader.Loader
}

// Result is the outcome of a successful Resolve.
type Result struct {
	// Document is the fully inlined root document.
	Document any
	// Options are the options the document was resolved with.
	Options ResolveOptions
}

// New creates an Engine for the document at uri, which may be an absolute URL
// or a file path. Relative paths are resolved against the working directory.
func New(uri string, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: NopLogger{},
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	u, err := references.NormalizeLocation(uri, e.cwd)
	if err != nil {
		return nil, err
	}
	e.uri = references.DocumentURL(u)

	e.api = e.newLoader()
	if e.document != nil {
		e.api.Seed(e.uri, e.document)
	}

	return e, nil
}

// URL returns the normalized URL of the root document.
func (e *Engine) URL() *url.URL {
	u := *e.uri
	return &u
}

// API loads the document at uri, resolved against the root document's URL, and
// returns it with the node its fragment addresses. Documents are cached for the
// Engine's lifetime; callers must not modify them.
func (e *Engine) API(ctx context.Context, uri string) (*loader.Document, error) {
	abs, err := references.ResolveAbsoluteReference(references.Reference(uri), e.uri.String())
	if err != nil {
		return nil, err
	}
	return e.api.Load(ctx, abs.URL)
}

// Resolve inlines every external reference reachable from the root document.
//
// A root document already carrying the x-resolved-from marker is returned
// unchanged. Any error aborts the whole resolution and no document is returned;
// a document supplied with WithDocument is never modified.
func (e *Engine) Resolve(ctx context.Context, opts ResolveOptions) (*Result, error) {
	if opts.ConflictStrategy == "" {
		opts.ConflictStrategy = ConflictError
	}
	if opts.Taggable == nil {
		opts.Taggable = DefaultTaggable
	}

	docs := e.newLoader()

	source := e.document
	if source == nil {
		doc, err := docs.Load(ctx, e.uri)
		if err != nil {
			return nil, err
		}
		source = doc.Document
	}

	if isResolved(source) {
		e.logger.Debug("document already resolved", "url", e.uri.String())
		return &Result{Document: source, Options: opts}, nil
	}

	root, ok := source.(*sequencedmap.Map[string, any])
	if !ok {
		return nil, &errors.UnsupportedMountError{Path: "#", Reason: fmt.Sprintf("document root is %T, not an object", source)}
	}

	if e.document != nil {
		// work on a copy so a failed run leaves the caller's document untouched
		cloned, err := clone.Clone(root)
		if err != nil {
			return nil, err
		}
		root = cloned.(*sequencedmap.Map[string, any])
		docs.Seed(e.uri, root)
	}

	rc := newResolutionContext(e, docs, root, opts)

	passes := 0
	for rc.changed = true; rc.changed; {
		rc.changed = false
		passes++

		result, err := walk.VisitReferences(ctx, rc.root, rc.shouldVisit, rc.visit)
		if err != nil {
			return nil, err
		}

		resolvedRoot, ok := result.(*sequencedmap.Map[string, any])
		if !ok {
			return nil, &errors.UnsupportedMountError{Path: "#", Reason: fmt.Sprintf("document root resolved to %T, not an object", result)}
		}
		rc.root = resolvedRoot
	}

	rc.tag(rc.root, e.uri, nil, "", true)

	if err := rc.cleanup(ctx); err != nil {
		return nil, err
	}

	rc.logger.Debug("resolution complete", "passes", passes, "documents", docs.Len(), "references", len(rc.resolved))

	return &Result{Document: rc.root, Options: opts}, nil
}

func (e *Engine) newLoader() *loader.Loader {
	if e.customFetcher != nil {
		return loader.New(e.customFetcher)
	}
	fetcher := e.fetcher
	return loader.New(&fetcher)
}

func isResolved(doc any) bool {
	obj, ok := doc.(*sequencedmap.Map[string, any])
	return ok && obj.Has(MarkerResolvedFrom)
}
