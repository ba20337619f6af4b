package utils

import (
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
)

const urlCacheSize = 1024

// URLCache is a bounded, thread-safe cache of parsed URLs. The same handful
// of document locations are parsed for every reference in a run.
type URLCache struct {
	cache *lru.Cache[string, *url.URL]
}

// NewURLCache creates a URLCache holding at most size entries.
func NewURLCache(size int) *URLCache {
	c, err := lru.New[string, *url.URL](size)
	if err != nil {
		// only returned for a non-positive size
		c, _ = lru.New[string, *url.URL](urlCacheSize)
	}
	return &URLCache{cache: c}
}

var globalURLCache = NewURLCache(urlCacheSize)

// ParseURLCached parses a URL string using the global cache.
func ParseURLCached(rawURL string) (*url.URL, error) {
	return globalURLCache.Parse(rawURL)
}

// Parse returns a copy of the cached parse result for rawURL, parsing and
// caching it on a miss. Parse errors are not cached.
func (c *URLCache) Parse(rawURL string) (*url.URL, error) {
	if cached, ok := c.cache.Get(rawURL); ok {
		urlCopy := *cached
		return &urlCopy, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	urlCopy := *parsed
	c.cache.Add(rawURL, &urlCopy)

	return parsed, nil
}

func (c *URLCache) Clear() {
	c.cache.Purge()
}

func (c *URLCache) Len() int {
	return c.cache.Len()
}

type URLCacheStats struct {
	Size int64
}

// GetURLCacheStats returns statistics about the global URL cache
func GetURLCacheStats() URLCacheStats {
	return URLCacheStats{Size: int64(globalURLCache.Len())}
}

// ClearGlobalURLCache clears the global URL cache
func ClearGlobalURLCache() {
	globalURLCache.Clear()
}
