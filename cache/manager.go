// Package cache manages the process-wide caches shared by every resolution run.
// Per-run state (loaded documents, resolved references) is never cached here.
package cache

import (
	"github.com/speakeasy-api/openapi-resolver/internal/utils"
	"github.com/speakeasy-api/openapi-resolver/references"
)

// ClearAllCaches clears all global caches in the system:
//   - URL parsing cache (internal/utils)
//   - Reference normalization cache (references)
//
// It is safe to call from multiple goroutines.
func ClearAllCaches() {
	ClearURLCache()
	ClearReferenceCache()
}

// ClearURLCache clears the bounded URL parsing cache.
func ClearURLCache() {
	utils.ClearGlobalURLCache()
}

// ClearReferenceCache clears the cache of (reference, base location) to
// absolute URL resolutions.
func ClearReferenceCache() {
	references.ClearGlobalRefCache()
}

type CacheStats struct {
	URLCacheSize       int64
	ReferenceCacheSize int64
}

// GetAllCacheStats returns statistics about all global caches in the system
func GetAllCacheStats() CacheStats {
	return CacheStats{
		URLCacheSize:       utils.GetURLCacheStats().Size,
		ReferenceCacheSize: references.GetRefCacheStats().Size,
	}
}
