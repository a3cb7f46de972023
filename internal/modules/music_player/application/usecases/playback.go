package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// PlaybackConfig tunes the PlaybackController.
type PlaybackConfig struct {
	DefaultVolume  int
	ResolveTimeout time.Duration
}

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID   snowflake.ID
	Target    string
	Requester Requester
}

// PlaybackController is the only mutator of guild queues.
// Every operation for a guild runs on that guild's executor, so operations
// observe a total order per guild and never overlap.
type PlaybackController struct {
	registry   domain.QueueRegistry
	executor   *GuildExecutor
	resolver   ports.TrackResolver
	voice      ports.VoiceContext
	connection ports.VoiceConnection
	player     ports.AudioPlayer
	sink       ports.NotificationSink
	config     PlaybackConfig
	shuffle    func(n int, swap func(i, j int))
}

// NewPlaybackController creates a new PlaybackController.
func NewPlaybackController(
	registry domain.QueueRegistry,
	resolver ports.TrackResolver,
	voice ports.VoiceContext,
	connection ports.VoiceConnection,
	player ports.AudioPlayer,
	sink ports.NotificationSink,
	config PlaybackConfig,
) *PlaybackController {
	return &PlaybackController{
		registry:   registry,
		executor:   NewGuildExecutor(),
		resolver:   resolver,
		voice:      voice,
		connection: connection,
		player:     player,
		sink:       sink,
		config:     config,
		shuffle:    rand.Shuffle,
	}
}

// Play resolves the target and appends the result to the guild's queue,
// creating the queue and joining voice if needed.
func (c *PlaybackController) Play(ctx context.Context, input PlayInput) (domain.Notification, error) {
	return submit(ctx, c.executor, input.GuildID, func(ctx context.Context) (domain.Notification, error) {
		return c.play(ctx, input)
	})
}

func (c *PlaybackController) play(ctx context.Context, input PlayInput) (domain.Notification, error) {
	channelID, err := c.voice.JoinableChannel(input.GuildID, input.Requester.UserID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to check voice channel: %w", err)
	}
	if channelID == 0 {
		return domain.Notification{}, ErrNotJoinable
	}

	resolveCtx := ctx
	if c.config.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		resolveCtx, cancel = context.WithTimeout(ctx, c.config.ResolveTimeout)
		defer cancel()
	}

	resolution, err := c.resolver.Resolve(resolveCtx, input.Target)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	tracks := requestedTracks(resolution.Tracks(), input.Requester)
	if len(tracks) == 0 {
		return domain.Notification{}, fmt.Errorf("%w: %w", ErrResolutionFailed, ports.ErrNotFound)
	}

	q, exists := c.registry.Get(input.GuildID)
	if !exists {
		if err := c.connection.JoinChannel(ctx, input.GuildID, channelID); err != nil {
			return domain.Notification{}, fmt.Errorf("failed to join voice channel: %w", err)
		}
		q, _ = c.registry.GetOrCreate(input.GuildID, func() *domain.GuildQueue {
			return domain.NewGuildQueue(
				input.GuildID,
				channelID,
				input.Requester.TextChannelID,
				c.config.DefaultVolume,
			)
		})
		if err := c.player.SetVolume(ctx, input.GuildID, q.Volume()); err != nil {
			slog.Warn("failed to apply initial volume", "guild", input.GuildID, "error", err)
		}
		slog.Info("created guild queue", "guild", input.GuildID, "voice_channel", channelID)
	} else {
		q.SetTextChannelID(input.Requester.TextChannelID)
	}

	position := q.Append(tracks...)
	if position == 0 {
		q.SetPaused(false)
		current, _ := q.Current()
		if err := c.player.Play(ctx, input.GuildID, current); err != nil {
			c.teardown(ctx, q, true)
			return domain.Notification{}, fmt.Errorf("failed to start playback: %w", err)
		}
	}

	slog.Debug("enqueued tracks",
		"guild", input.GuildID,
		"count", len(tracks),
		"position", position,
	)

	switch {
	case resolution.Playlist != nil:
		if position == 0 {
			c.publish(domain.NowPlaying(q))
		}
		return c.reply(domain.PlaylistAdded(q, resolution.Playlist.Name, len(tracks))), nil
	case position == 0:
		return c.reply(domain.NowPlaying(q)), nil
	default:
		return c.reply(domain.TrackAdded(q, tracks[0], position)), nil
	}
}

// requestedTracks stamps each valid track with the requester, skipping
// entries that cannot be played so the rest of a batch is kept.
func requestedTracks(tracks []domain.Track, requester Requester) []domain.Track {
	out := make([]domain.Track, 0, len(tracks))
	for _, track := range tracks {
		if !track.IsValid() {
			slog.Debug("skipping unplayable track", "title", track.Title, "url", track.URL)
			continue
		}
		out = append(out, track.Requested(requester.UserID, requester.DisplayName))
	}
	return out
}

// Skip advances to the next track. Loop mode Track does not hold an
// explicit skip; loop mode Queue wraps to the start.
func (c *PlaybackController) Skip(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(ctx context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		if _, ok := q.Skip(); !ok {
			c.teardown(ctx, q, true)
			return c.reply(domain.Finished(q)), nil
		}
		c.playCurrent(ctx, q)
		return c.reply(domain.NowPlaying(q)), nil
	})
}

// Previous replays the most recently finished track.
func (c *PlaybackController) Previous(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(ctx context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		if _, ok := q.Previous(); !ok {
			return domain.Notification{}, ErrNoHistory
		}
		c.playCurrent(ctx, q)
		return c.reply(domain.NowPlaying(q)), nil
	})
}

// PauseToggle pauses a playing queue or resumes a paused one.
func (c *PlaybackController) PauseToggle(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(ctx context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		var err error
		if q.TogglePaused() {
			err = c.player.Pause(ctx, guildID)
		} else {
			err = c.player.Resume(ctx, guildID)
		}
		if err != nil {
			q.TogglePaused()
			return domain.Notification{}, fmt.Errorf("failed to toggle pause: %w", err)
		}
		return c.reply(domain.PauseChanged(q)), nil
	})
}

// Stop clears the queue, leaves voice and destroys the queue.
func (c *PlaybackController) Stop(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(ctx context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		c.teardown(ctx, q, true)
		return c.reply(domain.Stopped(q)), nil
	})
}

// SetVolume sets the guild's playback volume.
func (c *PlaybackController) SetVolume(
	ctx context.Context,
	guildID snowflake.ID,
	volume int,
) (domain.Notification, error) {
	if volume < domain.MinVolume || volume > domain.MaxVolume {
		return domain.Notification{}, fmt.Errorf(
			"%w: volume must be between %d and %d",
			ErrInvalidArgument, domain.MinVolume, domain.MaxVolume,
		)
	}

	return c.withQueue(ctx, guildID, func(ctx context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		if err := q.SetVolume(volume); err != nil {
			return domain.Notification{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if err := c.player.SetVolume(ctx, guildID, volume); err != nil {
			slog.Warn("failed to apply volume", "guild", guildID, "volume", volume, "error", err)
			c.publish(domain.Errored(q, "volume", err.Error()))
		}
		return c.reply(domain.VolumeChanged(q)), nil
	})
}

// CycleLoopMode moves the loop mode to the next one in Off → Track → Queue order.
func (c *PlaybackController) CycleLoopMode(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(_ context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		q.CycleLoopMode()
		return c.reply(domain.LoopModeChanged(q)), nil
	})
}

// SetLoopMode selects a loop mode directly.
func (c *PlaybackController) SetLoopMode(
	ctx context.Context,
	guildID snowflake.ID,
	mode domain.LoopMode,
) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(_ context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		q.SetLoopMode(mode)
		return c.reply(domain.LoopModeChanged(q)), nil
	})
}

// Shuffle randomly reorders the upcoming tracks. The current track keeps position 0.
func (c *PlaybackController) Shuffle(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(_ context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		if !q.Shuffle(c.shuffle) {
			return domain.Notification{}, ErrEmptyQueue
		}
		return c.reply(domain.Shuffled(q)), nil
	})
}

// NowPlaying describes the current track without changing state.
func (c *PlaybackController) NowPlaying(ctx context.Context, guildID snowflake.ID) (domain.Notification, error) {
	return c.withQueue(ctx, guildID, func(_ context.Context, q *domain.GuildQueue) (domain.Notification, error) {
		n := domain.NowPlaying(q)
		n.Direct = true
		return n, nil
	})
}

// Snapshot returns a copy of the guild's queue.
func (c *PlaybackController) Snapshot(ctx context.Context, guildID snowflake.ID) (domain.QueueSnapshot, error) {
	return submit(ctx, c.executor, guildID, func(context.Context) (domain.QueueSnapshot, error) {
		q, ok := c.registry.Get(guildID)
		if !ok {
			return domain.QueueSnapshot{}, ErrEmptyQueue
		}
		return q.Snapshot(), nil
	})
}

// ActiveGuilds lists guilds that currently have a queue.
func (c *PlaybackController) ActiveGuilds() []snowflake.ID {
	return c.registry.GuildIDs()
}

// HandleTrackEnded advances the queue after the engine reports a track end.
// Events for an entry that is no longer current are ignored.
func (c *PlaybackController) HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) error {
	return c.executor.Do(ctx, event.GuildID, func(ctx context.Context) {
		if !event.Reason.ShouldAdvanceQueue() {
			return
		}

		q, ok := c.registry.Get(event.GuildID)
		if !ok {
			return
		}

		current, _ := q.Current()
		if event.EntryID != "" && current.EntryID != event.EntryID {
			slog.Debug("ignoring stale track end",
				"guild", event.GuildID,
				"entry", event.EntryID,
				"current", current.EntryID,
			)
			return
		}

		var hasNext bool
		if event.Reason == domain.TrackEndLoadFailed {
			c.publish(domain.Errored(q, "playback", "Failed to play "+current.Title))
			_, hasNext = q.DropCurrent()
		} else {
			_, hasNext = q.Advance()
		}

		if !hasNext {
			c.teardown(ctx, q, true)
			c.publish(domain.Finished(q))
			return
		}

		c.playCurrent(ctx, q)
		c.publish(domain.NowPlaying(q))
	})
}

// HandleListenerLeft destroys the guild's queue once its voice channel has
// no listeners left.
func (c *PlaybackController) HandleListenerLeft(ctx context.Context, guildID snowflake.ID) error {
	var err error
	doErr := c.executor.Do(ctx, guildID, func(ctx context.Context) {
		q, ok := c.registry.Get(guildID)
		if !ok {
			return
		}

		var empty bool
		empty, err = c.voice.MembersEmpty(guildID, q.VoiceChannelID())
		if err != nil || !empty {
			return
		}

		slog.Info("voice channel empty, destroying queue", "guild", guildID)
		c.teardown(ctx, q, true)
		c.publish(domain.EmptyChannel(q))
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// HandleBotVoiceStateChange reacts to the bot being moved or disconnected.
// channelID is 0 when the bot left voice.
func (c *PlaybackController) HandleBotVoiceStateChange(
	ctx context.Context,
	guildID snowflake.ID,
	channelID snowflake.ID,
) error {
	return c.executor.Do(ctx, guildID, func(ctx context.Context) {
		q, ok := c.registry.Get(guildID)
		if !ok {
			return
		}

		if channelID != 0 {
			q.SetVoiceChannelID(channelID)
			return
		}

		slog.Info("bot disconnected from voice, destroying queue", "guild", guildID)
		c.teardown(ctx, q, false)
		c.publish(domain.Disconnected(q))
	})
}

// withQueue runs fn on the guild's executor with its queue, failing with
// ErrEmptyQueue when there is none.
func (c *PlaybackController) withQueue(
	ctx context.Context,
	guildID snowflake.ID,
	fn func(context.Context, *domain.GuildQueue) (domain.Notification, error),
) (domain.Notification, error) {
	return submit(ctx, c.executor, guildID, func(ctx context.Context) (domain.Notification, error) {
		q, ok := c.registry.Get(guildID)
		if !ok {
			return domain.Notification{}, ErrEmptyQueue
		}
		return fn(ctx, q)
	})
}

// playCurrent starts the track at position 0 unpaused. Engine failures are
// reported as Errored notifications and do not roll back the queue.
func (c *PlaybackController) playCurrent(ctx context.Context, q *domain.GuildQueue) {
	current, ok := q.Current()
	if !ok {
		return
	}
	q.SetPaused(false)
	if err := c.player.Play(ctx, q.GuildID(), current); err != nil {
		slog.Error("failed to start track", "guild", q.GuildID(), "track", current.Title, "error", err)
		c.publish(domain.Errored(q, "playback", err.Error()))
	}
}

// teardown stops playback, optionally leaves voice, and removes the queue.
func (c *PlaybackController) teardown(ctx context.Context, q *domain.GuildQueue, leave bool) {
	guildID := q.GuildID()
	q.Clear()

	if err := c.player.Stop(ctx, guildID); err != nil {
		slog.Warn("failed to stop playback", "guild", guildID, "error", err)
	}
	if leave {
		if err := c.connection.LeaveChannel(ctx, guildID); err != nil {
			slog.Warn("failed to leave voice channel", "guild", guildID, "error", err)
		}
	}

	c.registry.Remove(guildID)
	slog.Info("destroyed guild queue", "guild", guildID)
}

func (c *PlaybackController) reply(n domain.Notification) domain.Notification {
	n.Direct = true
	c.publish(n)
	return n
}

func (c *PlaybackController) publish(n domain.Notification) {
	if c.sink != nil {
		c.sink.Notify(n)
	}
}
