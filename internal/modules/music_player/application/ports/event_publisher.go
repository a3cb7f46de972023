package ports

import "github.com/sglre6355/queuebot/internal/modules/music_player/domain"

// EventPublisher defines the interface for publishing events asynchronously.
type EventPublisher interface {
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishNotification(notification domain.Notification)
}
