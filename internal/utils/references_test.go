package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReference_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		reference    string
		expectedType ReferenceType
	}{
		{name: "http URL", reference: "http://example.com/api/schema.json", expectedType: ReferenceTypeURL},
		{name: "https URL", reference: "https://api.example.com/v1/openapi.yaml#/info", expectedType: ReferenceTypeURL},
		{name: "file URL", reference: "file:///path/to/schema.json", expectedType: ReferenceTypeURL},
		{name: "custom scheme URL", reference: "custom://example.com/resource", expectedType: ReferenceTypeURL},
		{name: "fragment", reference: "#/components/schemas/User", expectedType: ReferenceTypeFragment},
		{name: "root fragment", reference: "#", expectedType: ReferenceTypeFragment},
		{name: "relative path", reference: "./schemas/user.yaml", expectedType: ReferenceTypeFilePath},
		{name: "parent path", reference: "../common.yaml#/Pet", expectedType: ReferenceTypeFilePath},
		{name: "absolute path", reference: "/tmp/api/openapi.yaml", expectedType: ReferenceTypeFilePath},
		{name: "bare file name", reference: "pet.yaml", expectedType: ReferenceTypeFilePath},
		{name: "windows drive path", reference: `C:\specs\openapi.yaml`, expectedType: ReferenceTypeFilePath},
		{name: "windows forward slash path", reference: "D:/specs/openapi.yaml", expectedType: ReferenceTypeFilePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ClassifyReference(tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, result.Type)
			assert.Equal(t, tt.expectedType == ReferenceTypeURL, result.IsURL)
			assert.Equal(t, tt.expectedType == ReferenceTypeFilePath, result.IsFile)
			assert.Equal(t, tt.expectedType == ReferenceTypeFragment, result.IsFragment)
			assert.Equal(t, tt.reference, result.Original)
			if result.IsURL {
				assert.NotNil(t, result.ParsedURL)
			}
		})
	}
}

func TestClassifyReference_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		reference string
	}{
		{name: "empty", reference: ""},
		{name: "missing scheme", reference: "://example.com"},
		{name: "bad escape", reference: "http://example.com/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ClassifyReference(tt.reference)
			require.Error(t, err)
		})
	}
}

func TestToFileURL_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		path     string
		cwd      string
		expected string
	}{
		{name: "absolute", path: "/specs/openapi.yaml", cwd: "/ignored", expected: "file:///specs/openapi.yaml"},
		{name: "relative", path: "openapi.yaml", cwd: "/work", expected: "file:///work/openapi.yaml"},
		{name: "dot segments", path: "../common/./pet.yaml", cwd: "/work/api", expected: "file:///work/common/pet.yaml"},
		{name: "spaces are escaped", path: "/my specs/a.yaml", cwd: "/", expected: "file:///my%20specs/a.yaml"},
		{name: "windows drive", path: `C:\specs\..\api\openapi.yaml`, cwd: "/ignored", expected: "file:///C:/api/openapi.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := ToFileURL(tt.path, tt.cwd)
			assert.Equal(t, tt.expected, u.String())
		})
	}
}

func TestFromFileURL_Success(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("file:///work/my%20specs/openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/work/my specs/openapi.yaml", FromFileURL(u))
}
