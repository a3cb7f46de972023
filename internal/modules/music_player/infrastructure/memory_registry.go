package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// MemoryQueueRegistry is an in-memory implementation of QueueRegistry.
type MemoryQueueRegistry struct {
	mu     sync.RWMutex
	queues map[snowflake.ID]*domain.GuildQueue
}

// NewMemoryQueueRegistry creates a new MemoryQueueRegistry.
func NewMemoryQueueRegistry() *MemoryQueueRegistry {
	return &MemoryQueueRegistry{
		queues: make(map[snowflake.ID]*domain.GuildQueue),
	}
}

// GetOrCreate returns the guild's queue, calling create to build one if none
// is registered. The check and insert happen under a single lock, so at most
// one queue exists per guild. The bool reports whether a queue was created.
func (r *MemoryQueueRegistry) GetOrCreate(
	guildID snowflake.ID,
	create func() *domain.GuildQueue,
) (*domain.GuildQueue, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q, ok := r.queues[guildID]; ok {
		return q, false
	}

	q := create()
	r.queues[guildID] = q
	return q, true
}

// Get returns the guild's queue if one is registered.
func (r *MemoryQueueRegistry) Get(guildID snowflake.ID) (*domain.GuildQueue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.queues[guildID]
	return q, ok
}

// Remove unregisters the guild's queue. Removing an absent guild is a no-op.
func (r *MemoryQueueRegistry) Remove(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.queues, guildID)
}

// GuildIDs returns the guilds that currently have a queue.
func (r *MemoryQueueRegistry) GuildIDs() []snowflake.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]snowflake.ID, 0, len(r.queues))
	for id := range r.queues {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered queues (for testing/monitoring).
func (r *MemoryQueueRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.queues)
}

// Ensure MemoryQueueRegistry implements QueueRegistry.
var _ domain.QueueRegistry = (*MemoryQueueRegistry)(nil)
