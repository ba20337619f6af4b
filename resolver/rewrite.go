package resolver

import (
	"context"
	"net/url"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/walk"
)

// rewriteRefFragments prefixes every local reference in the document at docURL
// with nav, the location the whole document is about to be embedded at.
// Applied at most once per document.
func (rc *resolutionContext) rewriteRefFragments(ctx context.Context, doc any, docURL *url.URL, nav jsonpointer.Navigation) error {
	key := references.DocumentKey(docURL)
	if rc.fragmentRewritten[key] {
		return nil
	}
	rc.fragmentRewritten[key] = true

	prefix := strings.TrimPrefix(nav.AsFragment(), "#")
	if prefix == "" {
		return nil
	}

	count := 0
	_, err := walk.VisitReferences(ctx, doc, nil, func(_ context.Context, ref references.Reference, node *sequencedmap.Map[string, any], _ walk.Locations) (any, error) {
		if !ref.IsLocal() {
			return node, nil
		}
		node.Set(references.RefKey, "#"+prefix+strings.TrimPrefix(string(ref), "#"))
		count++
		return node, nil
	})
	if err != nil {
		return err
	}

	rc.note("rewrote local references for embedding", "document", key, "at", nav.AsFragment(), "count", count)
	return nil
}

// rewriteRefPaths makes every reference in the document at docURL absolute, so
// its content stays resolvable once moved into the root document. Local
// references are left alone when includeLocals is false. Applied at most once
// per document.
func (rc *resolutionContext) rewriteRefPaths(ctx context.Context, doc any, docURL *url.URL, includeLocals bool) error {
	key := references.DocumentKey(docURL)
	if rc.pathRewritten[key] {
		return nil
	}
	rc.pathRewritten[key] = true

	count := 0
	_, err := walk.VisitReferences(ctx, doc, nil, func(_ context.Context, ref references.Reference, node *sequencedmap.Map[string, any], _ walk.Locations) (any, error) {
		if ref.IsLocal() && !includeLocals {
			return node, nil
		}

		abs, err := references.ResolveAbsoluteReference(ref, key)
		if err != nil {
			return nil, err
		}
		node.Set(references.RefKey, abs.AbsoluteReference)
		count++
		return node, nil
	})
	if err != nil {
		return err
	}

	rc.note("made references absolute", "document", key, "count", count)
	return nil
}
