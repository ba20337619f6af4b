package walk

import (
	"context"

	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
)

// ReferenceVisitFunc is called for every Reference Object accepted by the filter.
type ReferenceVisitFunc func(ctx context.Context, ref references.Reference, node *sequencedmap.Map[string, any], loc Locations) (any, error)

// ReferenceFilter reports whether a Reference Object should be visited. A nil
// filter visits every Reference Object.
type ReferenceFilter func(node *sequencedmap.Map[string, any]) bool

// VisitReferences walks node and calls visit for each Reference Object the
// filter accepts. All other nodes pass through unchanged.
func VisitReferences(ctx context.Context, node any, filter ReferenceFilter, visit ReferenceVisitFunc) (any, error) {
	return Walk(ctx, node, func(ctx context.Context, obj *sequencedmap.Map[string, any], loc Locations) (any, error) {
		ref, _, ok := references.GetReference(obj)
		if !ok {
			return obj, nil
		}
		if filter != nil && !filter(obj) {
			return obj, nil
		}
		return visit(ctx, ref, obj, loc)
	})
}
