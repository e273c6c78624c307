// Package cache provides a generic, thread-safe cache that bounds entries by
// both lifetime and count, designed for memoizing evaluation results without
// unbounded memory growth.
//
// Every entry carries a time-to-live. Expired entries are treated as absent
// and evicted lazily, when an operation observes them; there is no background
// sweeper goroutine to manage. When the cache reaches its configured
// capacity, the least recently used entry is evicted to make room, so hot
// keys survive capacity pressure while cold ones age out.
//
// # Usage
//
// Create a cache with a capacity and a default TTL:
//
//	c := cache.NewTTLCache[string, Decision](10_000, time.Minute)
//
// Basic operations:
//
//	// Store under the default TTL, or with an explicit one
//	c.Set("user:123", decision)
//	c.SetWithTTL("user:456", decision, 5*time.Second)
//
//	// Retrieve (marks as recently used; expired entries report a miss)
//	d, found := c.Get("user:123")
//
//	// Remove specific entries, or everything
//	c.Remove("user:123")
//	c.Clear()
//
// Writes follow last-writer-wins semantics: updating a key replaces its value
// and restarts its expiry clock.
//
// # Resource Cleanup
//
// For values that need cleanup when they leave the cache, set an eviction
// callback. It fires for capacity evictions, observed expiries, explicit
// removals, and Clear:
//
//	c.SetEvictCallback(func(key string, d Decision) {
//		// release whatever the value holds
//	})
//
// # Thread Safety
//
// All operations are mutex-guarded and safe for concurrent use. Concurrent
// writes to the same key race benignly: one of them wins wholesale, and
// readers never observe a torn value.
//
// # Time Source
//
// Expiry is checked against an injectable clock. Production code uses the
// wall clock; tests substitute their own to step through expiry boundaries
// deterministically:
//
//	now := time.Now()
//	c := cache.NewTTLCache[string, int](8, time.Minute,
//		cache.WithTimeSource[string, int](func() time.Time { return now }))
package cache
