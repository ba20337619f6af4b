package resolver_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/resolver"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConflictStrategy_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected resolver.ConflictStrategy
	}{
		{input: "", expected: resolver.ConflictError},
		{input: "error", expected: resolver.ConflictError},
		{input: "ignore", expected: resolver.ConflictIgnore},
		{input: " Rename ", expected: resolver.ConflictRename},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			strategy, err := resolver.ParseConflictStrategy(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strategy)
		})
	}
}

func TestParseConflictStrategy_Error(t *testing.T) {
	t.Parallel()

	_, err := resolver.ParseConflictStrategy("merge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown conflict strategy "merge"`)
}

func TestDefaultTaggable(t *testing.T) {
	t.Parallel()

	ref := sequencedmap.New(sequencedmap.NewElem[string, any]("$ref", "#/components/schemas/A"))
	schema := sequencedmap.New(sequencedmap.NewElem[string, any]("type", "object"))

	tests := []struct {
		name     string
		node     *sequencedmap.Map[string, any]
		path     []string
		expected bool
	}{
		{name: "object anywhere", node: schema, path: []string{"paths"}, expected: true},
		{name: "object at root", node: schema, path: nil, expected: true},
		{name: "reference under components schemas", node: ref, path: []string{"components", "schemas", "A", "properties", "b"}, expected: true},
		{name: "reference below schema key", node: ref, path: []string{"paths", "/x", "get", "parameters", "0", "schema"}, expected: true},
		{name: "reference as component schema", node: ref, path: []string{"components", "schemas", "A"}, expected: true},
		{name: "reference as path item", node: ref, path: []string{"paths", "/x"}, expected: false},
		{name: "reference as response", node: ref, path: []string{"components", "responses", "NotFound"}, expected: false},
		{name: "short schema path", node: ref, path: []string{"schema", "x"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, resolver.DefaultTaggable(tt.node, jsonpointer.FromPath(tt.path)))
		})
	}
}

func TestSlogAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.With("root", "file:///a.yaml").Info("inlined component", "name", "Pet")
	logger.Debug("debug note")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="inlined component"`)
	assert.Contains(t, out, "root=file:///a.yaml")
	assert.Contains(t, out, "name=Pet")
	assert.Contains(t, out, "debug note")

	assert.NotNil(t, resolver.NewSlogAdapter(nil))
	resolver.NopLogger{}.With("a", 1).Warn("discarded")
}

func TestEngine_Resolve_VerboseNotes_Success(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t, map[string]string{
		"a.yaml": "info:\n  $ref: ./b.yaml\n",
		"b.yaml": "title: b\n",
	})

	var buf bytes.Buffer
	logger := resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	_, err := resolveFixture(t, dir, "a.yaml", resolver.ResolveOptions{Verbose: true}, resolver.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="inlined document"`)

	buf.Reset()
	_, err = resolveFixture(t, dir, "a.yaml", resolver.ResolveOptions{}, resolver.WithLogger(logger))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "inlined document")
}
