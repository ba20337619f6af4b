package hashing

import (
	"testing"

	"github.com/speakeasy-api/openapi-resolver/sequencedmap"
	"github.com/speakeasy-api/openapi-resolver/yml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := yml.Decode([]byte(src), "test.yaml")
	require.NoError(t, err)
	return v
}

func TestHash_Format(t *testing.T) {
	t.Parallel()

	h := Hash(decode(t, "type: object\n"))
	assert.Len(t, h, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", h)
	assert.Equal(t, h, Hash(decode(t, "type: object\n")), "hashing is deterministic")
}

func TestHash_Equal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a      string
		b      string
		ignore []string
	}{
		{
			name: "key order is ignored",
			a:    "type: object\nproperties:\n  id: {type: integer}\n  name: {type: string}\n",
			b:    "properties:\n  name: {type: string}\n  id: {type: integer}\ntype: object\n",
		},
		{
			name:   "ignored keys at any depth",
			a:      "type: object\nx-resolved-from: file:///a.yaml\nproperties:\n  id: {type: integer, x-resolved-from: file:///a.yaml}\n",
			b:      "type: object\nproperties:\n  id: {type: integer}\n",
			ignore: []string{"x-resolved-from"},
		},
		{
			name: "json and yaml spellings",
			a:    `{"type": "array", "items": {"$ref": "#/components/schemas/Pet"}}`,
			b:    "type: array\nitems:\n  $ref: '#/components/schemas/Pet'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, Equal(decode(t, tt.a), decode(t, tt.b), tt.ignore...))
		})
	}
}

func TestHash_NotEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    any
		b    any
	}{
		{name: "string and number", a: "1", b: 1},
		{name: "int and float", a: 1, b: 1.5},
		{name: "null and empty string", a: nil, b: ""},
		{name: "array order matters", a: []any{"a", "b"}, b: []any{"b", "a"}},
		{name: "nested arrays", a: []any{[]any{"a"}, "b"}, b: []any{[]any{"a", "b"}}},
		{name: "key value boundaries", a: map[string]any{"ab": "c"}, b: map[string]any{"a": "bc"}},
		{name: "different content", a: decode(t, "type: string\n"), b: decode(t, "type: integer\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotEqual(t, Hash(tt.a), Hash(tt.b))
		})
	}
}

func TestHash_Cycle_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New[string, any]()
	m.Set("self", m)

	assert.Len(t, Hash(m), 16, "cycles do not recurse forever")
}
