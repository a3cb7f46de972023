package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// MemorySearchCache keeps the latest search results per user.
// Entries never expire; a newer search replaces the older one.
type MemorySearchCache struct {
	entries sync.Map // snowflake.ID -> domain.SearchResults
}

// NewMemorySearchCache creates a new MemorySearchCache.
func NewMemorySearchCache() *MemorySearchCache {
	return &MemorySearchCache{}
}

// Record stores results as the user's latest search.
func (c *MemorySearchCache) Record(userID snowflake.ID, results domain.SearchResults) {
	c.entries.Store(userID, results)
}

// Lookup returns the user's latest search results.
func (c *MemorySearchCache) Lookup(userID snowflake.ID) (domain.SearchResults, bool) {
	v, ok := c.entries.Load(userID)
	if !ok {
		return domain.SearchResults{}, false
	}
	return v.(domain.SearchResults), true
}

var _ domain.SearchCache = (*MemorySearchCache)(nil)
