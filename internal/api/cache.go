package api

import (
	"sync"

	"github.com/crease/crease/pkg/surface"
)

// ScorecardCache is a thread-safe LRU cache of computed scorecards. Each
// entry is stamped with the ledger version it was built from and is only
// served for that version.
type ScorecardCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	version uint64
	card    *surface.Scorecard
}

// NewScorecardCache creates a cache with the given maximum number of
// matches. If maxSize <= 0, it defaults to 64.
func NewScorecardCache(maxSize int) *ScorecardCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &ScorecardCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the cached scorecard of a match if it was built at version.
func (c *ScorecardCache) Get(matchID string, version uint64) (*surface.Scorecard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[matchID]
	if !ok || entry.version != version {
		return nil, false
	}
	c.moveToEnd(matchID)
	return entry.card, true
}

// Put stores a scorecard built at version, evicting the least recently used
// match if full. An entry for a newer version is never replaced by an older one.
func (c *ScorecardCache) Put(matchID string, version uint64, card *surface.Scorecard) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[matchID]; ok {
		if entry.version <= version {
			c.entries[matchID] = &cacheEntry{version: version, card: card}
		}
		c.moveToEnd(matchID)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[matchID] = &cacheEntry{version: version, card: card}
	c.order = append(c.order, matchID)
}

// Remove drops a match from the cache.
func (c *ScorecardCache) Remove(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[matchID]; !ok {
		return
	}
	delete(c.entries, matchID)
	for i, k := range c.order {
		if k == matchID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len returns the number of cached matches.
func (c *ScorecardCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ScorecardCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
