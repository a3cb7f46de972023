package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceContext answers questions about the caller's and the bot's voice presence.
type VoiceContext interface {
	// JoinableChannel returns the voice channel the user is in, provided the
	// bot may connect and speak there. Returns 0 when no such channel exists.
	JoinableChannel(guildID, userID snowflake.ID) (snowflake.ID, error)

	// MembersEmpty reports whether no human listeners remain in the channel.
	MembersEmpty(guildID, channelID snowflake.ID) (bool, error)
}
