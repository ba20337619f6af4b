package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/loader"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/system"
)

// ConflictStrategy decides what happens when two differently sourced
// components would be inlined under the same name.
type ConflictStrategy string

const (
	// ConflictError fails the resolution with a *errors.ComponentConflictError.
	ConflictError ConflictStrategy = "error"
	// ConflictIgnore keeps the existing component and points the reference at it.
	ConflictIgnore ConflictStrategy = "ignore"
	// ConflictRename inlines the incoming component under the first free name1, name2, ...
	ConflictRename ConflictStrategy = "rename"
)

// ParseConflictStrategy parses a strategy name. The empty string means ConflictError.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ConflictError:
		return ConflictError, nil
	case ConflictIgnore:
		return ConflictIgnore, nil
	case ConflictRename:
		return ConflictRename, nil
	default:
		return "", fmt.Errorf("unknown conflict strategy %q, expected one of error, ignore, rename", s)
	}
}

// TaggableFunc reports whether provenance markers may be added to node when it
// is inlined at nav.
type TaggableFunc func(node *sequencedmap.Map[string, any], nav jsonpointer.Navigation) bool

// DefaultTaggable allows markers on any object that is not a Reference Object.
// Reference Objects are only tagged in schema positions (under components/schemas
// or below a "schema" key) where sibling keys are permitted.
func DefaultTaggable(node *sequencedmap.Map[string, any], nav jsonpointer.Navigation) bool {
	if !references.IsReference(node) {
		return true
	}
	return nav.Len() > 2 && (nav.HasPrefix("components", "schemas") || nav.Contains("schema"))
}

// ResolveOptions configures a single Resolve call.
type ResolveOptions struct {
	// ConflictStrategy defaults to ConflictError.
	ConflictStrategy ConflictStrategy
	// NoMarkers strips x-resolved-from and x-resolved-at from the output.
	NoMarkers bool
	// Verbose reports resolution notes at Info rather than Debug level.
	Verbose bool
	// Taggable overrides DefaultTaggable.
	Taggable TaggableFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithDocument supplies the root document instead of loading it from the
// engine's URI. Plain map[string]any objects are converted with sorted keys.
func WithDocument(doc any) Option {
	return func(e *Engine) {
		e.document = toItem(doc)
	}
}

// WithVirtualFS sets the file system file:// documents are read from.
func WithVirtualFS(fsys system.VirtualFS) Option {
	return func(e *Engine) {
		e.fetcher.VirtualFS = fsys
	}
}

// WithHTTPClient sets the client http(s) documents are fetched with.
func WithHTTPClient(client system.Client) Option {
	return func(e *Engine) {
		e.fetcher.HTTPClient = client
	}
}

// WithFetcher replaces document fetching entirely. WithVirtualFS and
// WithHTTPClient have no effect when it is set.
func WithFetcher(fetcher loader.Fetcher) Option {
	return func(e *Engine) {
		e.customFetcher = fetcher
	}
}

func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source used for the x-resolved-at marker.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithWorkingDirectory sets the directory bare paths are resolved against.
// Defaults to the process working directory.
func WithWorkingDirectory(dir string) Option {
	return func(e *Engine) {
		e.cwd = dir
	}
}

// toItem converts plain Go maps anywhere in v into ordered objects.
func toItem(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := sequencedmap.FromSorted(t)
		for key, value := range out.All() {
			out.Set(key, toItem(value))
		}
		return out
	case *sequencedmap.Map[string, any]:
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toItem(item)
		}
		return out
	default:
		return v
	}
}
