package cache

import (
	"testing"

	"github.com/speakeasy-api/openapi-resolver/internal/utils"
	"github.com/speakeasy-api/openapi-resolver/references"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The caches are global so these tests do not run in parallel.

func TestClearAllCaches_Success(t *testing.T) { //nolint:paralleltest
	populateURLCache(t)
	populateReferenceCache(t)

	stats := GetAllCacheStats()
	assert.Positive(t, stats.URLCacheSize, "URL cache should have entries")
	assert.Positive(t, stats.ReferenceCacheSize, "Reference cache should have entries")

	ClearAllCaches()

	stats = GetAllCacheStats()
	assert.Equal(t, int64(0), stats.URLCacheSize, "URL cache should be empty")
	assert.Equal(t, int64(0), stats.ReferenceCacheSize, "Reference cache should be empty")
}

func TestClearURLCache_Success(t *testing.T) { //nolint:paralleltest
	ClearAllCaches()
	populateURLCache(t)

	ClearURLCache()

	assert.Equal(t, int64(0), GetAllCacheStats().URLCacheSize, "URL cache should be empty")
}

func TestClearReferenceCache_Success(t *testing.T) { //nolint:paralleltest
	ClearAllCaches()
	populateReferenceCache(t)

	ClearReferenceCache()

	stats := GetAllCacheStats()
	assert.Equal(t, int64(0), stats.ReferenceCacheSize, "Reference cache should be empty")
	assert.Positive(t, stats.URLCacheSize, "URL cache should be untouched")
}

func populateURLCache(t *testing.T) {
	t.Helper()

	for _, u := range []string{
		"https://example1.com/api/v1",
		"https://example2.com/api/v2",
		"https://example3.com/api/v3",
	} {
		_, err := utils.ParseURLCached(u)
		require.NoError(t, err, "should parse URL successfully")
	}
}

func populateReferenceCache(t *testing.T) {
	t.Helper()

	refs := []struct {
		ref  references.Reference
		base string
	}{
		{references.Reference("#/components/schemas/User"), "https://api1.example.com/openapi.yaml"},
		{references.Reference("./schema.yaml"), "https://api2.example.com/openapi.yaml"},
		{references.Reference("common.yaml#/components/schemas/Pet"), "file:///work/openapi.yaml"},
	}

	for _, r := range refs {
		_, err := references.ResolveAbsoluteReferenceCached(r.ref, r.base)
		require.NoError(t, err, "should resolve reference successfully")
	}
}
