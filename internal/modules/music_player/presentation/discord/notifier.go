package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
	"golang.org/x/time/rate"
)

// Notifier posts notifications to the queue's text channel, throttled per
// channel so a burst of queue changes cannot trip Discord's rate limits.
type Notifier struct {
	messenger channelMessenger
	renderer  *Renderer
	limit     rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[snowflake.ID]*rate.Limiter
}

// NewNotifier creates a Notifier allowing perSecond messages per channel with
// the given burst.
func NewNotifier(messenger channelMessenger, renderer *Renderer, perSecond float64, burst int) *Notifier {
	return &Notifier{
		messenger: messenger,
		renderer:  renderer,
		limit:     rate.Limit(perSecond),
		burst:     burst,
		limiters:  make(map[snowflake.ID]*rate.Limiter),
	}
}

// Send renders the notification and posts it, waiting for the channel's
// rate limiter first.
func (n *Notifier) Send(ctx context.Context, notification domain.Notification) error {
	msg := n.renderer.Notification(notification)
	if len(msg.Embeds) == 0 {
		return nil
	}

	if err := n.limiter(notification.ChannelID).Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	_, err := n.messenger.ChannelMessageSendComplex(notification.ChannelID.String(), msg.messageSend())
	return err
}

func (n *Notifier) limiter(channelID snowflake.ID) *rate.Limiter {
	n.mu.Lock()
	defer n.mu.Unlock()

	l, ok := n.limiters[channelID]
	if !ok {
		l = rate.NewLimiter(n.limit, n.burst)
		n.limiters[channelID] = l
	}
	return l
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
