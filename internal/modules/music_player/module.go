package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/queuebot/internal/bot"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/queuebot/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/queuebot/internal/modules/music_player/presentation/discord"
	statusapi "github.com/sglre6355/queuebot/internal/modules/music_player/presentation/http"
)

const shutdownTimeout = 5 * time.Second

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	statusServer    *statusapi.StatusServer

	// Event-driven components
	eventBus            *infrastructure.ChannelEventBus
	playbackHandler     *application.PlaybackEventHandler
	notificationHandler *application.NotificationEventHandler

	// Context for the Lavalink connection
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
// Every slash command goes through the same dispatcher.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	handlers := make(map[string]bot.InteractionHandler)
	for _, cmd := range discord.Commands() {
		handlers[cmd.Name] = m.handleCommand
	}
	return handlers
}

// ComponentHandlers returns the now-playing button handler.
func (m *MusicPlayerModule) ComponentHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		discord.ButtonPrefix: m.handleButton,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
		func(s *discordgo.Session, msg *discordgo.MessageCreate) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleMessageCreate(s, msg)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player requires a Discord session")
	}
	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	// Create cancellable context for the Lavalink connection
	m.ctx, m.cancel = context.WithCancel(context.Background())

	// Create event bus (needed by Lavalink adapter for publishing events)
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	// Create Lavalink adapter
	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(m.ctx, deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
		Secure:   m.config.LavalinkSecure,
	})
	if err != nil {
		return err
	}
	lavalinkAdapter.SetEventPublisher(m.eventBus)
	m.lavalinkAdapter = lavalinkAdapter

	// Create infrastructure
	registry := infrastructure.NewMemoryQueueRegistry()
	searchCache := infrastructure.NewMemorySearchCache()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	ytdlpResolver := infrastructure.NewYtdlpResolver(infrastructure.YtdlpConfig{
		ExtractorArgs: m.config.YtdlpExtractorArgs,
	})

	resolver := m.trackResolver(ytdlpResolver, lavalinkAdapter)
	searcher := m.trackSearcher(ytdlpResolver)

	// Create use cases
	controller := usecases.NewPlaybackController(
		registry,
		resolver,
		voiceState,
		lavalinkAdapter,
		lavalinkAdapter,
		m.eventBus,
		usecases.PlaybackConfig{
			DefaultVolume:  m.config.DefaultVolume,
			ResolveTimeout: m.config.ResolveTimeout,
		},
	)
	search := usecases.NewSearchService(searcher, searchCache)
	dispatcher := usecases.NewDispatcher(controller, search)

	renderer := discord.NewRenderer(m.config.CommandPrefix)
	notifier := discord.NewNotifier(
		deps.Session,
		renderer,
		m.config.NotificationRate,
		m.config.NotificationBurst,
	)

	// Create application event handlers
	m.playbackHandler = application.NewPlaybackEventHandler(controller, m.eventBus)
	m.notificationHandler = application.NewNotificationEventHandler(m.eventBus, notifier)

	// Register event handlers
	m.playbackHandler.Start()
	m.notificationHandler.Start()

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(dispatcher, renderer)
	m.autocomplete = discord.NewAutocompleteHandler(searcher)
	m.eventHandlers = discord.NewEventHandlers(
		lavalinkAdapter.BotID(),
		m.config.CommandPrefix,
		controller,
		dispatcher,
		renderer,
		deps.Session,
	)

	if m.config.StatusAddr != "" {
		m.statusServer = statusapi.NewStatusServer(m.config.StatusAddr, controller)
		m.statusServer.Start()
	}

	slog.Info("music_player module initialized with Lavalink",
		"resolver", m.config.ResolverBackend,
		"search", m.config.SearchBackend,
	)

	return nil
}

func (m *MusicPlayerModule) trackResolver(
	ytdlpResolver *infrastructure.YtdlpResolver,
	lavalinkAdapter *infrastructure.LavalinkAdapter,
) ports.TrackResolver {
	if m.config.ResolverBackend == ResolverLavalink {
		return lavalinkAdapter
	}
	return ytdlpResolver
}

func (m *MusicPlayerModule) trackSearcher(ytdlpResolver *infrastructure.YtdlpResolver) ports.TrackSearcher {
	switch m.config.SearchBackend {
	case SearchYTSearch:
		return infrastructure.NewYTSearchSearcher()
	case SearchYTMusic:
		return infrastructure.NewYTMusicSearcher()
	default:
		return ytdlpResolver
	}
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	var errs []error

	if m.statusServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := m.statusServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop status server: %w", err))
		}
		cancel()
	}

	// Cancel context first to abort pending Lavalink calls
	if m.cancel != nil {
		m.cancel()
	}

	// Close event bus
	if m.eventBus != nil {
		m.eventBus.Close()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return errors.Join(errs...)
}

// Interaction handlers.

func (m *MusicPlayerModule) handleCommand(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if m.commandHandlers == nil {
		return errors.New("music_player module is not initialized")
	}
	return m.commandHandlers.HandleCommand(s, i, r)
}

func (m *MusicPlayerModule) handleButton(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if m.commandHandlers == nil {
		return errors.New("music_player module is not initialized")
	}
	return m.commandHandlers.HandleButton(s, i, r)
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete || m.autocomplete == nil {
		return
	}

	if i.ApplicationCommandData().Name == "play" {
		m.autocomplete.HandlePlay(s, i)
	}
}
