package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// mockDispatcher records submitted commands and returns a canned result.
type mockDispatcher struct {
	mu       sync.Mutex
	commands []usecases.Command
	result   *usecases.Result
	err      error
	onSubmit func()
}

func (m *mockDispatcher) Submit(_ context.Context, cmd usecases.Command) (*usecases.Result, error) {
	if m.onSubmit != nil {
		m.onSubmit()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	return m.result, m.err
}

func (m *mockDispatcher) last() (usecases.Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.commands) == 0 {
		return usecases.Command{}, false
	}
	return m.commands[len(m.commands)-1], true
}

// mockMessenger records messages posted to channels.
type mockMessenger struct {
	mu       sync.Mutex
	channels []string
	messages []*discordgo.MessageSend
	err      error
}

func (m *mockMessenger) ChannelMessageSendComplex(
	channelID string,
	data *discordgo.MessageSend,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, channelID)
	m.messages = append(m.messages, data)
	return &discordgo.Message{ChannelID: channelID}, m.err
}

func (m *mockMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// mockVoiceHandler records voice presence callbacks.
type mockVoiceHandler struct {
	listenerLeft []snowflake.ID
	botChanges   []botVoiceChange
	err          error
}

type botVoiceChange struct {
	guildID   snowflake.ID
	channelID snowflake.ID
}

func (m *mockVoiceHandler) HandleListenerLeft(_ context.Context, guildID snowflake.ID) error {
	m.listenerLeft = append(m.listenerLeft, guildID)
	return m.err
}

func (m *mockVoiceHandler) HandleBotVoiceStateChange(_ context.Context, guildID, channelID snowflake.ID) error {
	m.botChanges = append(m.botChanges, botVoiceChange{guildID: guildID, channelID: channelID})
	return m.err
}

// mockSearcher returns canned references.
type mockSearcher struct {
	refs    []domain.TrackReference
	err     error
	queries []string
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int) ([]domain.TrackReference, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.refs[:min(limit, len(m.refs))], nil
}

func testTrack(title string) domain.Track {
	return domain.Track{
		Title:         title,
		URL:           "https://www.youtube.com/watch?v=" + title,
		RequesterName: "alice",
	}
}

func nowPlayingResult(track domain.Track, remaining int) *usecases.Result {
	return &usecases.Result{Notification: &domain.Notification{
		Kind:      domain.NotificationNowPlaying,
		Track:     &track,
		Remaining: remaining,
		Direct:    true,
	}}
}

func slashInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "100",
		ChannelID: "200",
		Member: &discordgo.Member{
			Nick: "Ali",
			User: &discordgo.User{ID: "300", Username: "alice"},
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func buttonInteraction(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "100",
		ChannelID: "200",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "300", Username: "alice"}},
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}
