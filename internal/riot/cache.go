package riot

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultCacheCapacity bounds how many match bodies are held in memory.
// High-tier players share lobbies constantly, so a run revisits the same
// match ids often enough that a modest window pays for itself.
const DefaultCacheCapacity = 4096

// MatchCache deduplicates match detail requests within a run. A bloom
// filter tracks every match id ever stored so lookups for never-seen ids
// skip the map entirely; a bounded FIFO map holds the recent bodies.
//
// The cache is constructed once per run and handed to the client, not
// recreated per call.
type MatchCache struct {
	mu       sync.Mutex
	seen     *bloom.BloomFilter
	matches  map[string]*MatchResponse
	order    []string // insertion order, for eviction
	capacity int

	hits   int64
	misses int64
}

// CacheStats reports cache effectiveness for the end-of-run summary.
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// NewMatchCache creates a MatchCache holding up to capacity match bodies.
// capacity <= 0 selects DefaultCacheCapacity.
func NewMatchCache(capacity int) *MatchCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &MatchCache{
		seen:     bloom.NewWithEstimates(500000, 0.001),
		matches:  make(map[string]*MatchResponse, capacity),
		order:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Get returns the cached match body for matchID, if present.
func (c *MatchCache) Get(matchID string) (*MatchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Bloom miss means the id was never stored; skip the map lookup.
	if !c.seen.TestString(matchID) {
		c.misses++
		return nil, false
	}

	m, ok := c.matches[matchID]
	if !ok {
		// False positive or evicted entry.
		c.misses++
		return nil, false
	}
	c.hits++
	return m, true
}

// Put stores a fetched match body, evicting the oldest entry when full.
func (c *MatchCache) Put(matchID string, m *MatchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.matches[matchID]; exists {
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.matches, oldest)
	}

	c.seen.AddString(matchID)
	c.matches[matchID] = m
	c.order = append(c.order, matchID)
}

// Stats returns hit/miss counters and the current body count.
func (c *MatchCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.matches)}
}
