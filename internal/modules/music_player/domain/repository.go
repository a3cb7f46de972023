package domain

import "github.com/disgoorg/snowflake/v2"

// QueueRegistry owns every GuildQueue in the process.
// Implementations must guarantee at most one queue per guild.
type QueueRegistry interface {
	// GetOrCreate returns the guild's queue, calling create to build one if
	// none exists. created reports whether create was used.
	GetOrCreate(guildID snowflake.ID, create func() *GuildQueue) (q *GuildQueue, created bool)
	// Get returns the guild's queue if one exists.
	Get(guildID snowflake.ID) (*GuildQueue, bool)
	// Remove deletes the guild's queue.
	Remove(guildID snowflake.ID)
	// GuildIDs lists the guilds with a queue.
	GuildIDs() []snowflake.ID
}

// SearchCache remembers each user's latest search results.
// Entries are overwritten by the next search and never expire.
type SearchCache interface {
	Record(userID snowflake.ID, results SearchResults)
	Lookup(userID snowflake.ID) (SearchResults, bool)
}
