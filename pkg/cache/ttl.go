package cache

import (
	"container/list"
	"sync"
	"time"
)

type ttlEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means the entry never expires
}

// TTLCache is a thread-safe cache bounding both entry lifetime and entry
// count. Entries past their time-to-live are treated as absent and evicted
// when observed; when the cache reaches its capacity, the least recently used
// entry is evicted to make room.
type TTLCache[K comparable, V any] struct {
	capacity   int
	defaultTTL time.Duration
	items      map[K]*list.Element
	eviction   *list.List
	mu         sync.Mutex
	now        func() time.Time
	onEvict    func(key K, value V) // Callback for cleanup when items are evicted
}

// TTLCacheOption configures a TTLCache.
type TTLCacheOption[K comparable, V any] func(*TTLCache[K, V])

// WithTimeSource replaces the wall clock used for expiry bookkeeping.
// Tests use it to advance time deterministically.
func WithTimeSource[K comparable, V any](now func() time.Time) TTLCacheOption[K, V] {
	return func(c *TTLCache[K, V]) {
		c.now = now
	}
}

// NewTTLCache creates a new TTL cache with the specified capacity and default
// entry lifetime. The capacity must be positive, otherwise it panics.
// A non-positive defaultTTL stores entries without time-based expiry.
func NewTTLCache[K comparable, V any](capacity int, defaultTTL time.Duration, opts ...TTLCacheOption[K, V]) *TTLCache[K, V] {
	if capacity <= 0 {
		panic("TTL cache capacity must be positive")
	}
	c := &TTLCache[K, V]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		items:      make(map[K]*list.Element),
		eviction:   list.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEvictCallback sets a callback function that is called when items are
// evicted, whether by capacity pressure, expiry, or Clear.
func (c *TTLCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value from the cache and marks it as recently used.
// An entry past its expiry is evicted on observation and reported as a miss.
// Returns the value and true if found, zero value and false otherwise.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*ttlEntry[K, V])
		if c.expired(entry) {
			c.removeElement(elem)
			var zero V
			return zero, false
		}
		c.eviction.MoveToFront(elem)
		return entry.value, true
	}

	var zero V
	return zero, false
}

// Set adds or updates a value using the cache's default TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL adds or updates a value with an explicit lifetime, replacing any
// previous value and restarting its expiry clock. A non-positive ttl stores
// the value without time-based expiry. If the cache is at capacity, the least
// recently used entry is evicted.
func (c *TTLCache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*ttlEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	entry := &ttlEntry[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = c.eviction.PushFront(entry)

	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}
}

// Remove removes an item from the cache.
// Returns the removed value and true if it existed, zero value and false
// otherwise. An expired entry counts as absent.
func (c *TTLCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*ttlEntry[K, V])
		expired := c.expired(entry)
		c.removeElement(elem)
		if expired {
			var zero V
			return zero, false
		}
		return entry.value, true
	}

	var zero V
	return zero, false
}

// Len reports the number of stored entries, including entries that have
// expired but have not been observed yet.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Clear removes all items from the cache.
// If an evict callback is set, it's called for each item.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for _, elem := range c.items {
			entry := elem.Value.(*ttlEntry[K, V])
			c.onEvict(entry.key, entry.value)
		}
	}

	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

// Must be called with lock held. An entry is live strictly before its
// deadline; at the deadline it is already expired.
func (c *TTLCache[K, V]) expired(entry *ttlEntry[K, V]) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}

// Must be called with lock held.
func (c *TTLCache[K, V]) evictOldest() {
	elem := c.eviction.Back()
	if elem != nil {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *TTLCache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*ttlEntry[K, V])
	delete(c.items, entry.key)

	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
