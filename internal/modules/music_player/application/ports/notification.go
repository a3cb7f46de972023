package ports

import (
	"context"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// NotificationSink receives every notification the controller emits.
type NotificationSink interface {
	Notify(notification domain.Notification)
}

// NotificationSender delivers a notification to the queue's text channel.
type NotificationSender interface {
	Send(ctx context.Context, notification domain.Notification) error
}
