package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// voiceEventHandler reacts to voice presence changes.
type voiceEventHandler interface {
	HandleListenerLeft(ctx context.Context, guildID snowflake.ID) error
	HandleBotVoiceStateChange(ctx context.Context, guildID, channelID snowflake.ID) error
}

// channelMessenger posts messages to text channels. *discordgo.Session implements it.
type channelMessenger interface {
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	botID      snowflake.ID
	prefix     string
	voice      voiceEventHandler
	dispatcher commandSubmitter
	renderer   *Renderer
	messenger  channelMessenger
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(
	botID snowflake.ID,
	prefix string,
	voice voiceEventHandler,
	dispatcher commandSubmitter,
	renderer *Renderer,
	messenger channelMessenger,
) *EventHandlers {
	return &EventHandlers{
		botID:      botID,
		prefix:     prefix,
		voice:      voice,
		dispatcher: dispatcher,
		renderer:   renderer,
		messenger:  messenger,
	}
}

// HandleVoiceStateUpdate handles VoiceStateUpdate events. Updates for the bot
// itself report moves and disconnects; a listener leaving a channel triggers
// the empty channel check.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}
	ctx := context.Background()

	if event.UserID == h.botID.String() {
		// Zero channel means disconnected
		var channelID snowflake.ID
		if event.ChannelID != "" {
			channelID, err = snowflake.Parse(event.ChannelID)
			if err != nil {
				slog.Error("failed to parse channel ID in voice state update", "error", err)
				return
			}
		}
		if err := h.voice.HandleBotVoiceStateChange(ctx, guildID, channelID); err != nil {
			slog.Error("failed to handle bot voice state change", "guild", guildID, "error", err)
		}
		return
	}

	before := event.BeforeUpdate
	if before == nil || before.ChannelID == "" || before.ChannelID == event.ChannelID {
		return
	}
	if err := h.voice.HandleListenerLeft(ctx, guildID); err != nil {
		slog.Warn("failed to check voice channel listeners", "guild", guildID, "error", err)
	}
}

// HandleMessageCreate runs prefixed text commands and replies in the same channel.
func (h *EventHandlers) HandleMessageCreate(
	_ *discordgo.Session,
	m *discordgo.MessageCreate,
) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	cmd, ok, err := ParseTextCommand(h.prefix, m.Content)
	if !ok {
		return
	}
	if err != nil {
		h.reply(m, h.renderer.Error(err))
		return
	}

	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in message", "error", err)
		return
	}
	req, err := requester(m.Member, m.Author, m.ChannelID)
	if err != nil {
		slog.Error("failed to identify message author", "guild", guildID, "error", err)
		return
	}
	cmd.GuildID = guildID
	cmd.Requester = req

	res, err := h.dispatcher.Submit(context.Background(), cmd)
	if err != nil {
		slog.Debug("text command failed", "guild", guildID, "op", cmd.Op.String(), "error", err)
		h.reply(m, h.renderer.Error(err))
		return
	}
	h.reply(m, h.renderer.Result(res))
}

func (h *EventHandlers) reply(m *discordgo.MessageCreate, msg Message) {
	if len(msg.Embeds) == 0 {
		return
	}

	send := msg.messageSend()
	send.Reference = m.Reference()
	if _, err := h.messenger.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		slog.Warn("failed to reply to text command", "channel", m.ChannelID, "error", err)
	}
}
