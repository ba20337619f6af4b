package resolver

import (
	"context"
	"net/url"
	"time"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/walk"
)

const (
	// MarkerResolvedFrom records the document inlined content came from. Its
	// presence at the root marks a document as fully resolved.
	MarkerResolvedFrom = "x-resolved-from"
	// MarkerResolvedAt records when the root document was resolved (RFC3339, UTC).
	MarkerResolvedAt = "x-resolved-at"

	// markerInternal holds the reference an inlined node was produced from. It
	// never leaves the engine.
	markerInternal = "x-resolved-internal"

	timeFormat = time.RFC3339
)

// markers are ignored when comparing components for equivalence.
var markers = []string{MarkerResolvedFrom, MarkerResolvedAt, markerInternal}

// tag annotates an inlined object with its provenance. key is the normalized
// reference it was produced from.
func (rc *resolutionContext) tag(item any, source *url.URL, nav *jsonpointer.Navigation, key string, timestamp bool) {
	obj, ok := item.(*sequencedmap.Map[string, any])
	if !ok || obj == nil {
		return
	}

	if nav == nil || rc.opts.Taggable(obj, *nav) {
		obj.Set(MarkerResolvedFrom, source.String())
		if timestamp {
			obj.Set(MarkerResolvedAt, rc.clock())
		}
	}

	if key == "" {
		key = source.String()
	}
	obj.Set(markerInternal, key)
}

// cleanup strips the internal marker from the whole tree, and the provenance
// markers too when NoMarkers is set.
func (rc *resolutionContext) cleanup(ctx context.Context) error {
	_, err := walk.Walk(ctx, rc.root, func(_ context.Context, node *sequencedmap.Map[string, any], _ walk.Locations) (any, error) {
		node.Delete(markerInternal)
		if rc.opts.NoMarkers {
			node.Delete(MarkerResolvedFrom)
			node.Delete(MarkerResolvedAt)
		}
		return node, nil
	})
	return err
}
