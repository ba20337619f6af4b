package references

import (
	"sync"
)

// RefCacheKey represents a unique key for caching reference resolution results
type RefCacheKey struct {
	Ref          string
	BaseLocation string
}

// RefCache provides a thread-safe cache for reference resolution results
type RefCache struct {
	cache sync.Map // map[RefCacheKey]*AbsoluteReferenceResult
}

var globalRefCache = &RefCache{}

// ResolveAbsoluteReferenceCached resolves a reference to an absolute reference
// using a cache to avoid repeated resolution of the same (reference, base) pairs.
func ResolveAbsoluteReferenceCached(ref Reference, baseLocation string) (*AbsoluteReferenceResult, error) {
	return globalRefCache.Resolve(ref, baseLocation)
}

// Resolve returns a copy of the cached result for (ref, baseLocation),
// resolving and caching it on a miss. Errors are not cached.
func (c *RefCache) Resolve(ref Reference, baseLocation string) (*AbsoluteReferenceResult, error) {
	key := RefCacheKey{
		Ref:          string(ref),
		BaseLocation: baseLocation,
	}

	if cached, ok := c.cache.Load(key); ok {
		return copyResult(cached.(*AbsoluteReferenceResult)), nil
	}

	result, err := resolveAbsoluteReferenceUncached(ref, baseLocation)
	if err != nil {
		return nil, err
	}

	c.cache.Store(key, copyResult(result))

	return result, nil
}

func copyResult(r *AbsoluteReferenceResult) *AbsoluteReferenceResult {
	u := *r.URL
	return &AbsoluteReferenceResult{
		AbsoluteReference: r.AbsoluteReference,
		URL:               &u,
		Classification:    r.Classification, // read-only
	}
}

// Clear clears all cached reference resolutions.
func (c *RefCache) Clear() {
	c.cache.Clear()
}

type RefCacheStats struct {
	Size int64
}

func (c *RefCache) GetStats() RefCacheStats {
	var size int64
	c.cache.Range(func(key, value any) bool {
		size++
		return true
	})
	return RefCacheStats{Size: size}
}

// GetRefCacheStats returns statistics about the global reference cache
func GetRefCacheStats() RefCacheStats {
	return globalRefCache.GetStats()
}

// ClearGlobalRefCache clears the global reference cache
func ClearGlobalRefCache() {
	globalRefCache.Clear()
}
