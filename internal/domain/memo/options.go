// Package memo provides a bounded cache for derived reports.
package memo

// Option applies a configuration option to the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxSize sets the maximum number of reports to keep.
// If maxSize <= 0 the cache is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}
