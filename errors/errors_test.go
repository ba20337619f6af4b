package errors_test

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/speakeasy-api/openapi-resolver/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      errors.Error
		target   error
		expected bool
	}{
		{
			name:     "exact match",
			err:      errors.Error("test error"),
			target:   errors.Error("test error"),
			expected: true,
		},
		{
			name:     "wrapped message with separator",
			err:      errors.Error("test error"),
			target:   errors.New("test error -- cause"),
			expected: true,
		},
		{
			name:     "prefix without separator",
			err:      errors.Error("test error"),
			target:   errors.New("test error but different"),
			expected: false,
		},
		{
			name:     "nil target",
			err:      errors.Error("test error"),
			target:   nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Is(tt.target))
		})
	}
}

func TestError_Wrap_Success(t *testing.T) {
	t.Parallel()

	const errBase = errors.Error("base")
	wrapped := errBase.Wrap(fs.ErrNotExist)

	assert.Equal(t, "base -- file does not exist", wrapped.Error())
	require.ErrorIs(t, wrapped, errBase)
	require.ErrorIs(t, wrapped, fs.ErrNotExist)

	var target errors.Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, errBase, target)
}

func TestDocumentLoadError_Success(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading root: %w", &errors.DocumentLoadError{
		URL:   "file:///tmp/missing.yaml",
		Cause: fs.ErrNotExist,
	})

	require.ErrorIs(t, err, errors.ErrDocumentLoad)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "file:///tmp/missing.yaml")

	var loadErr *errors.DocumentLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "file:///tmp/missing.yaml", loadErr.URL)
}

func TestComponentConflictError_Success(t *testing.T) {
	t.Parallel()

	err := &errors.ComponentConflictError{
		Section:  "schemas",
		Name:     "Widget",
		Existing: "file:///api/b.yaml",
		Incoming: "file:///api/c.yaml",
	}

	require.ErrorIs(t, err, errors.ErrComponentConflict)
	assert.NotErrorIs(t, err, errors.ErrDocumentLoad)
	assert.Equal(t, "component conflict: #/components/schemas/Widget is defined by file:///api/b.yaml and file:///api/c.yaml", err.Error())
}

func TestComponentConflictError_RootSource_Success(t *testing.T) {
	t.Parallel()

	err := &errors.ComponentConflictError{Section: "schemas", Name: "Pet", Incoming: "file:///api/pets.yaml"}
	assert.Contains(t, err.Error(), "<root document>")
}

func TestUnsupportedMountError_Success(t *testing.T) {
	t.Parallel()

	err := &errors.UnsupportedMountError{Path: "#/components", Reason: "expected an object, got string"}
	require.ErrorIs(t, err, errors.ErrUnsupportedMount)
	assert.Equal(t, "unsupported mount at #/components: expected an object, got string", err.Error())
}

func TestInvariantViolationError_Success(t *testing.T) {
	t.Parallel()

	err := &errors.InvariantViolationError{
		Subject:   "resolved references",
		Key:       "file:///b.yaml",
		Existing:  "#/a",
		Attempted: "#/b",
	}
	require.ErrorIs(t, err, errors.ErrInvariantViolation)
	assert.Contains(t, err.Error(), `"#/a"`)
	assert.Contains(t, err.Error(), `"#/b"`)
}

func TestJoin_Success(t *testing.T) {
	t.Parallel()

	joined := errors.Join(errors.ErrInvalidReference, &errors.DocumentLoadError{URL: "x"})
	require.ErrorIs(t, joined, errors.ErrInvalidReference)
	require.ErrorIs(t, joined, errors.ErrDocumentLoad)
}
