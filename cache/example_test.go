package cache_test

import (
	"fmt"

	"github.com/speakeasy-api/openapi-resolver/cache"
	"github.com/speakeasy-api/openapi-resolver/internal/utils"
	"github.com/speakeasy-api/openapi-resolver/references"
)

// ExampleClearAllCaches demonstrates how to clear all global caches
func ExampleClearAllCaches() {
	cache.ClearAllCaches()

	_, _ = utils.ParseURLCached("https://example.com/api")
	_, _ = references.ResolveAbsoluteReferenceCached(
		references.Reference("#/components/schemas/User"),
		"https://api.example.com/openapi.yaml",
	)

	stats := cache.GetAllCacheStats()
	fmt.Printf("Before clearing - URL cache: %d, Reference cache: %d\n", stats.URLCacheSize, stats.ReferenceCacheSize)

	cache.ClearAllCaches()

	stats = cache.GetAllCacheStats()
	fmt.Printf("After clearing - URL cache: %d, Reference cache: %d\n", stats.URLCacheSize, stats.ReferenceCacheSize)

	// Output:
	// Before clearing - URL cache: 2, Reference cache: 1
	// After clearing - URL cache: 0, Reference cache: 0
}
