package application

import (
	"context"
	"log/slog"

	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// TrackEndedHandler is the part of the playback controller that reacts to
// engine track-end events.
type TrackEndedHandler interface {
	HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) error
}

// PlaybackEventHandler feeds TrackEnded events from the audio engine back
// into the playback controller.
type PlaybackEventHandler struct {
	controller TrackEndedHandler
	subscriber ports.EventSubscriber
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	controller TrackEndedHandler,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		controller: controller,
		subscriber: subscriber,
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() {
	h.subscriber.OnTrackEnded(h.handleTrackEnded)
	slog.Debug("playback event handlers properly registered")
}

func (h *PlaybackEventHandler) handleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	slog.Debug(
		"track ended",
		"guild", event.GuildID,
		"entry", event.EntryID,
		"reason", event.Reason,
	)

	if err := h.controller.HandleTrackEnded(ctx, event); err != nil {
		slog.Error(
			"failed to handle track end",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

// NotificationEventHandler delivers queued notifications to the guild's text
// channel. Notifications already returned to the caller as a reply are skipped.
type NotificationEventHandler struct {
	subscriber ports.EventSubscriber
	sender     ports.NotificationSender
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	subscriber ports.EventSubscriber,
	sender ports.NotificationSender,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		subscriber: subscriber,
		sender:     sender,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() {
	h.subscriber.OnNotification(h.handleNotification)
	slog.Debug("notification event handlers properly registered")
}

func (h *NotificationEventHandler) handleNotification(ctx context.Context, n domain.Notification) {
	if n.Direct {
		return
	}
	if n.ChannelID == 0 {
		slog.Debug("dropping notification without channel", "guild", n.GuildID, "kind", n.Kind.String())
		return
	}

	// Delivery failures never affect queue state.
	if err := h.sender.Send(ctx, n); err != nil {
		slog.Warn(
			"failed to deliver notification",
			"guild", n.GuildID,
			"channel", n.ChannelID,
			"kind", n.Kind.String(),
			"error", err,
		)
	}
}
