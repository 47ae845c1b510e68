package engine

import (
	"sync"

	"github.com/yourusername/finesse/internal/placekey"
)

// Cache constants
const (
	DefaultCacheSize = 1 << 12 // 4K entries, plenty for the bounded query space
	CacheHit         = ^uint32(0)
)

// invalidQueryKey can never be produced by placekey.MakeQueryKey, which
// packs its fields into the low bits only.
const invalidQueryKey = placekey.QueryKey(^uint32(0))

// CacheEntry stores one cached search result
type CacheEntry struct {
	Key       placekey.QueryKey // Packed (kind, start, target) query
	Context   int32             // Search context (geometry, edge flags)
	Sequences []Sequence        // All minimal sequences for the query
}

// QueryCache is a thread-safe finesse query cache
// Uses a two-way associative cache with MurmurHash3-based indexing
type QueryCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.RWMutex
}

// cacheNode holds primary and secondary entries for two-way associative cache
type cacheNode struct {
	primary   CacheEntry
	secondary CacheEntry
}

// NewQueryCache creates a new query cache with the given size
// Size will be adjusted to the nearest power of 2
func NewQueryCache(size uint32) *QueryCache {
	if size > 1<<20 {
		size = 1 << 20
	}

	// Find smallest power of 2 >= size
	p := uint32(2)
	for p < size {
		p <<= 1
	}
	size = p

	cache := &QueryCache{
		entries:  make([]cacheNode, size/2),
		size:     size,
		hashMask: (size / 2) - 1,
	}

	cache.Flush()
	return cache
}

// Flush clears all entries from the cache
func (c *QueryCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].primary = CacheEntry{Key: invalidQueryKey}
		c.entries[i].secondary = CacheEntry{Key: invalidQueryKey}
	}
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// hash computes the slot for a query using MurmurHash3-style mixing
func (c *QueryCache) hash(key placekey.QueryKey, context int32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)

	k := uint32(key)
	k *= c1
	k = (k << 15) | (k >> 17)
	k *= c2
	h ^= k
	h = (h << 13) | (h >> 19)
	h = h*5 + 0xe6546b64

	k = uint32(context)
	k *= c1
	k = (k << 15) | (k >> 17)
	k *= c2
	h ^= k

	// Finalization
	h ^= 8
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup checks if a query result is in the cache
// Returns CacheHit and the sequences if found, otherwise the slot for Add
func (c *QueryCache) Lookup(key placekey.QueryKey, context int32) ([]Sequence, uint32) {
	slot := c.hash(key, context)

	c.mu.RLock()
	defer c.mu.RUnlock()

	c.lookups++

	node := &c.entries[slot]

	if node.primary.Key == key && node.primary.Context == context {
		c.hits++
		return node.primary.Sequences, CacheHit
	}

	if node.secondary.Key == key && node.secondary.Context == context {
		c.hits++
		return node.secondary.Sequences, CacheHit
	}

	return nil, slot
}

// Add adds a search result to the cache
// slot should be the value returned by a previous Lookup miss
func (c *QueryCache) Add(key placekey.QueryKey, context int32, sequences []Sequence, slot uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]

	// Move primary to secondary, add new as primary
	node.secondary = node.primary
	node.primary = CacheEntry{
		Key:       key,
		Context:   context,
		Sequences: sequences,
	}

	c.adds++
}

// Stats returns cache statistics
func (c *QueryCache) Stats() (lookups, hits, adds uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage
func (c *QueryCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}

// MakeSearchContext packs the parameters that change search results into a
// single int32 for cache keying
func MakeSearchContext(width int, tapOnly bool) int32 {
	// Bit layout:
	// Bits 0-4: board width (4-24)
	// Bit 5: tap-only edge set
	ctx := int32(width & 0x1F)
	if tapOnly {
		ctx |= 1 << 5
	}
	return ctx
}
