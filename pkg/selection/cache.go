package selection

import (
	"log"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the number of applications the strategy cache remembers.
const DefaultCapacity = 100

// Entry is a point-in-time copy of one cache mapping.
type Entry struct {
	AppID    string
	Strategy Strategy
}

// StrategyCache is a bounded, least-recently-used map from application
// identifier to the strategy that last worked for it. Lookup and Record both
// refresh recency. All methods are safe for concurrent use.
type StrategyCache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[string, Strategy]
	capacity int
}

// NewStrategyCache creates a cache holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func NewStrategyCache(capacity int) *StrategyCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	// NewLRU only fails for a non-positive size
	lru, _ := simplelru.NewLRU[string, Strategy](capacity, func(appID string, s Strategy) {
		log.Printf("selection: evicted %s strategy for %q", s, appID)
	})

	return &StrategyCache{lru: lru, capacity: capacity}
}

var sharedCache = sync.OnceValue(func() *StrategyCache {
	return NewStrategyCache(DefaultCapacity)
})

// SharedCache returns the process-wide cache. It is built on first use and
// lives for the rest of the process.
func SharedCache() *StrategyCache {
	return sharedCache()
}

// Lookup returns the remembered strategy for appID.
func (c *StrategyCache) Lookup(appID string) (Strategy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(appID)
}

// Record remembers strategy for appID, evicting the least recently used
// entry when the cache is full and appID is new.
func (c *StrategyCache) Record(appID string, strategy Strategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(appID, strategy)
}

// Len returns the number of cached applications.
func (c *StrategyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Capacity returns the maximum number of entries.
func (c *StrategyCache) Capacity() int {
	return c.capacity
}

// Entries returns the cached mappings, most recently used first, without
// refreshing recency.
func (c *StrategyCache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.lru.Keys()
	entries := make([]Entry, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if s, ok := c.lru.Peek(keys[i]); ok {
			entries = append(entries, Entry{AppID: keys[i], Strategy: s})
		}
	}
	return entries
}
