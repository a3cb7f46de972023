package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
)

// requiredVoicePermissions are what the bot needs in a channel to play into it.
const requiredVoicePermissions = discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak

// VoiceStateProvider answers voice questions from the gateway state cache.
type VoiceStateProvider struct {
	state       *discordgo.State
	permissions func(userID, channelID string) (int64, error)
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{
		state:       session.State,
		permissions: session.State.UserChannelPermissions,
	}
}

// JoinableChannel returns the voice channel the user is in, or 0 if the user
// is not in voice or the bot may not connect and speak there.
func (v *VoiceStateProvider) JoinableChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	guild, err := v.state.Guild(guildID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to get guild from state: %w", err)
	}

	channelID := ""
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID = vs.ChannelID
			break
		}
	}
	if channelID == "" {
		return 0, nil
	}

	if v.state.User != nil {
		perms, err := v.permissions(v.state.User.ID, channelID)
		if err != nil {
			return 0, fmt.Errorf("failed to compute voice permissions: %w", err)
		}
		if perms&requiredVoicePermissions != requiredVoicePermissions {
			return 0, nil
		}
	}

	return snowflake.Parse(channelID)
}

// MembersEmpty reports whether no human user remains in the voice channel.
// Bots, the bot itself included, do not count.
func (v *VoiceStateProvider) MembersEmpty(guildID, channelID snowflake.ID) (bool, error) {
	guild, err := v.state.Guild(guildID.String())
	if err != nil {
		return false, fmt.Errorf("failed to get guild from state: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID.String() {
			continue
		}
		if v.isBot(guildID, vs) {
			continue
		}
		return false, nil
	}
	return true, nil
}

func (v *VoiceStateProvider) isBot(guildID snowflake.ID, vs *discordgo.VoiceState) bool {
	if v.state.User != nil && vs.UserID == v.state.User.ID {
		return true
	}
	if vs.Member != nil && vs.Member.User != nil {
		return vs.Member.User.Bot
	}
	if member, err := v.state.Member(guildID.String(), vs.UserID); err == nil && member.User != nil {
		return member.User.Bot
	}
	return false
}

// Ensure VoiceStateProvider implements ports.VoiceContext.
var _ ports.VoiceContext = (*VoiceStateProvider)(nil)
