package ports

import (
	"context"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
	OnNotification(handler func(context.Context, domain.Notification))
}
