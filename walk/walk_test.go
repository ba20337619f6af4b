package walk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/speakeasy-api/openapi-resolver/jsonpointer"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/walk"
	"github.com/speakeasy-api/openapi-resolver/yml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, src string) *sequencedmap.Map[string, any] {
	t.Helper()
	v, err := yml.Decode([]byte(src), "test.yaml")
	require.NoError(t, err)
	return v.(*sequencedmap.Map[string, any])
}

const petstore = `paths:
  /pets:
    get:
      parameters:
        - $ref: "#/components/parameters/Limit"
        - name: offset
          in: query
      responses:
        "200":
          $ref: common.yaml#/components/responses/Pets
components:
  schemas:
    Pet:
      type: object
`

func TestWalk_PreOrder_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, petstore)

	var visited []string
	result, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		visited = append(visited, loc.Navigation().AsFragment())
		return node, nil
	})
	require.NoError(t, err)
	assert.Same(t, doc, result)

	assert.Equal(t, []string{
		"#",
		"#/paths",
		"#/paths/~1pets",
		"#/paths/~1pets/get",
		"#/paths/~1pets/get/parameters/0",
		"#/paths/~1pets/get/parameters/1",
		"#/paths/~1pets/get/responses",
		"#/paths/~1pets/get/responses/200",
		"#/components",
		"#/components/schemas",
		"#/components/schemas/Pet",
	}, visited)
}

func TestWalk_ReplaceBeforeDescending_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, "a:\n  replace: true\nb: 1\n")

	var visited []string
	_, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		visited = append(visited, loc.Navigation().AsFragment())
		if node.Has("replace") {
			inner := sequencedmap.New[string, any]()
			inner.Set("x", 1)
			replacement := sequencedmap.New[string, any]()
			replacement.Set("inner", inner)
			return replacement, nil
		}
		return node, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"#", "#/a", "#/a/inner"}, visited, "the walk descends into the replacement")
	a := doc.GetOrZero("a").(*sequencedmap.Map[string, any])
	assert.True(t, a.Has("inner"))
	assert.Equal(t, 1, doc.GetOrZero("b"), "scalars are untouched")
}

func TestWalk_SiblingMutation_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, "first:\n  k: v\nsecond:\n  k: v\nthird:\n  k: v\n")

	var visited []string
	_, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		visited = append(visited, loc.Navigation().AsFragment())
		if loc.ParentKey() == "first" {
			doc.Delete("second")
			added := sequencedmap.New[string, any]()
			added.Set("k", "v")
			doc.Set("fourth", added)
		}
		return node, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"#", "#/first", "#/third"}, visited)
}

func TestWalk_NestedArrays_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, "items:\n  - a: 1\n  - [{b: 2}]\n  - plain\n")

	_, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		if loc.IsParent("items") || len(loc) == 3 {
			return loc.ToJSONPointer().String(), nil
		}
		return node, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"/items/0", []any{"/items/1/0"}, "plain"}, doc.GetOrZero("items"))
}

func TestWalk_Terminate_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, "a:\n  stop: true\nb:\n  k: v\n")

	var visited int
	_, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		visited++
		if node.Has("stop") {
			return "stopped", walk.ErrTerminate
		}
		return node, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, visited)
	assert.Equal(t, "stopped", doc.GetOrZero("a"), "the replacement returned with ErrTerminate is kept")
}

func TestWalk_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	doc := decode(t, "a:\n  b:\n    c: 1\n")

	_, err := walk.Walk(t.Context(), doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		if loc.ParentKey() == "b" {
			return nil, boom
		}
		return node, nil
	})
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = walk.Walk(ctx, doc, func(ctx context.Context, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
		return node, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestVisitReferences_Success(t *testing.T) {
	t.Parallel()

	doc := decode(t, petstore)
	skipped := doc.GetOrZero("paths").(*sequencedmap.Map[string, any]).
		GetOrZero("/pets").(*sequencedmap.Map[string, any]).
		GetOrZero("get").(*sequencedmap.Map[string, any]).
		GetOrZero("parameters").([]any)[0].(*sequencedmap.Map[string, any])
	skipped.Set("x-skip", true)

	var refs []string
	var locations []jsonpointer.Navigation
	_, err := walk.VisitReferences(t.Context(), doc,
		func(node *sequencedmap.Map[string, any]) bool { return !node.Has("x-skip") },
		func(ctx context.Context, ref references.Reference, node *sequencedmap.Map[string, any], loc walk.Locations) (any, error) {
			refs = append(refs, ref.String())
			locations = append(locations, loc.Navigation())
			return node, nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"common.yaml#/components/responses/Pets"}, refs)
	require.Len(t, locations, 1)
	assert.Equal(t, []string{"paths", "/pets", "get", "responses", "200"}, locations[0].Path())
}

func TestSetAtLocation_Error(t *testing.T) {
	t.Parallel()

	key := "k"
	index := 5

	tests := []struct {
		name string
		loc  walk.LocationContext
	}{
		{name: "missing key", loc: walk.LocationContext{Parent: sequencedmap.New[string, any]()}},
		{name: "missing index", loc: walk.LocationContext{Parent: []any{}}},
		{name: "index out of range", loc: walk.LocationContext{Parent: []any{1}, ParentIndex: &index}},
		{name: "scalar parent", loc: walk.LocationContext{Parent: "x", ParentKey: &key}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Error(t, walk.SetAtLocation(tt.loc, 1))
		})
	}
}
