package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/bot"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
)

// commandSubmitter runs normalized commands.
type commandSubmitter interface {
	Submit(ctx context.Context, cmd usecases.Command) (*usecases.Result, error)
}

// CommandHandlers handles slash commands and control buttons.
type CommandHandlers struct {
	dispatcher commandSubmitter
	renderer   *Renderer
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(dispatcher commandSubmitter, renderer *Renderer) *CommandHandlers {
	return &CommandHandlers{
		dispatcher: dispatcher,
		renderer:   renderer,
	}
}

// HandleCommand handles every music slash command.
// The reply is deferred because play may wait on track resolution.
func (h *CommandHandlers) HandleCommand(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	cmd, err := ParseSlashCommand(i.ApplicationCommandData())
	if err != nil {
		return respondEphemeral(r, h.renderer.Error(err))
	}
	if cmd, err = withInteractionContext(cmd, i); err != nil {
		return respondEphemeral(r, h.renderer.Error(err))
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	res, err := h.dispatcher.Submit(context.Background(), cmd)
	if err != nil {
		slog.Debug("command failed", "guild", cmd.GuildID, "op", cmd.Op.String(), "error", err)
		return r.Edit(h.renderer.Error(err).webhookEdit())
	}
	return r.Edit(h.renderer.Result(res).webhookEdit())
}

// HandleButton handles the now-playing control buttons.
// The press is acknowledged before dispatch since it may queue behind a
// pending play; the result follows as a separate message.
func (h *CommandHandlers) HandleButton(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	cmd, err := ParseButton(i.MessageComponentData().CustomID)
	if err != nil {
		return respondEphemeral(r, h.renderer.Error(err))
	}
	if cmd, err = withInteractionContext(cmd, i); err != nil {
		return respondEphemeral(r, h.renderer.Error(err))
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		return err
	}

	res, err := h.dispatcher.Submit(context.Background(), cmd)
	if err != nil {
		slog.Debug("button failed", "guild", cmd.GuildID, "op", cmd.Op.String(), "error", err)
		params := h.renderer.Error(err).webhookParams()
		params.Flags = discordgo.MessageFlagsEphemeral
		return r.Followup(params)
	}
	return r.Followup(h.renderer.Result(res).webhookParams())
}

// withInteractionContext fills in the guild and requester of an interaction.
func withInteractionContext(cmd usecases.Command, i *discordgo.InteractionCreate) (usecases.Command, error) {
	if i.GuildID == "" {
		return cmd, fmt.Errorf("%w: music commands only work in a server", usecases.ErrInvalidArgument)
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return cmd, fmt.Errorf("invalid guild ID: %w", err)
	}
	req, err := requester(i.Member, i.User, i.ChannelID)
	if err != nil {
		return cmd, err
	}

	cmd.GuildID = guildID
	cmd.Requester = req
	return cmd, nil
}

// Response helpers.

func respondEphemeral(r bot.Responder, msg Message) error {
	data := msg.responseData()
	data.Flags = discordgo.MessageFlagsEphemeral
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}
