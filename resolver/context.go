package resolver

import (
	"context"
	"strings"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/loader"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/walk"
)

// resolutionContext is the state of one Resolve call.
type resolutionContext struct {
	opts   ResolveOptions
	logger Logger
	clock  func() string

	loader  *loader.Loader
	root    *sequencedmap.Map[string, any]
	rootKey string

	// resolved maps a normalized external reference to its local replacement
	resolved map[string]string
	// documents whose refs were made absolute / re-prefixed for embedding
	pathRewritten     map[string]bool
	fragmentRewritten map[string]bool
	// componentSources maps "section/name" to the reference its content came from
	componentSources map[string]string

	changed bool
}

func newResolutionContext(e *Engine, docs *loader.Loader, root *sequencedmap.Map[string, any], opts ResolveOptions) *resolutionContext {
	rootKey := e.uri.String()

	rc := &resolutionContext{
		opts:              opts,
		logger:            e.logger.With("root", rootKey),
		clock:             func() string { return e.clock().UTC().Format(timeFormat) },
		loader:            docs,
		root:              root,
		rootKey:           rootKey,
		resolved:          map[string]string{rootKey: "#"},
		pathRewritten:     make(map[string]bool),
		fragmentRewritten: make(map[string]bool),
		componentSources:  make(map[string]string),
	}

	return rc
}

// note reports resolution progress, at Info level when verbose.
func (rc *resolutionContext) note(msg string, attrs ...any) {
	if rc.opts.Verbose {
		rc.logger.Info(msg, attrs...)
		return
	}
	rc.logger.Debug(msg, attrs...)
}

// record stores the replacement for a normalized reference. Entries are write once.
func (rc *resolutionContext) record(key, replacement string) error {
	if existing, ok := rc.resolved[key]; ok && existing != replacement {
		return &errors.InvariantViolationError{
			Subject:   "resolved references",
			Key:       key,
			Existing:  existing,
			Attempted: replacement,
		}
	}
	rc.resolved[key] = replacement
	return nil
}

// shouldVisit skips Reference Objects whose $ref was already processed into them.
func (rc *resolutionContext) shouldVisit(node *sequencedmap.Map[string, any]) bool {
	marker, ok := node.Get(markerInternal)
	if !ok {
		return true
	}
	return marker != node.GetOrZero(references.RefKey)
}

// visit handles one Reference Object found at loc during a pass.
func (rc *resolutionContext) visit(ctx context.Context, ref references.Reference, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
	if ref.IsLocal() {
		return node, nil
	}

	nav := loc.Navigation()

	abs, err := references.ResolveAbsoluteReference(ref, rc.rootKey)
	if err != nil {
		return nil, err
	}
	key := abs.AbsoluteReference

	if replacement, ok := rc.resolved[key]; ok {
		node.Set(references.RefKey, replacement)
		if !strings.HasPrefix(replacement, "#") {
			rc.changed = true
		}
		return node, nil
	}

	if references.DocumentKey(abs.URL) == rc.rootKey {
		fragment := references.Fragment(abs.URL)
		if fragment == "" {
			fragment = "#"
		}
		rc.note("rewrote self reference", "ref", ref.String(), "to", fragment)
		if err := rc.record(key, fragment); err != nil {
			return nil, err
		}
		node.Set(references.RefKey, fragment)
		return node, nil
	}

	rc.changed = true

	var result any
	switch kind := references.ClassifyFragment(references.Fragment(abs.URL)); kind {
	case references.KindWholeDocument:
		result, err = rc.inlineDocument(ctx, key, abs.URL, node, nav)
	case references.KindComponent:
		result, err = rc.inlineComponent(ctx, key, abs.URL, node, nav)
	default:
		result, err = rc.inlineFragment(ctx, key, abs.URL, node, nav)
	}
	if err != nil {
		return nil, err
	}

	if nav.IsRoot() {
		obj, ok := result.(*sequencedmap.Map[string, any])
		if !ok {
			return nil, &errors.UnsupportedMountError{Path: "#", Reason: "reference at the document root did not resolve to an object"}
		}
		rc.root = obj
	}

	return result, nil
}

// mergeSiblings copies the keys of the Reference Object ref, other than $ref,
// into target where target does not already define them.
func mergeSiblings(target any, ref *sequencedmap.Map[string, any]) {
	obj, ok := target.(*sequencedmap.Map[string, any])
	if !ok {
		return
	}
	for key, value := range ref.All() {
		if key == references.RefKey || obj.Has(key) {
			continue
		}
		obj.Set(key, value)
	}
}

func componentNav(section, name string) jsonpointer.Navigation {
	return jsonpointer.FromPath([]string{"components", section, name})
}
