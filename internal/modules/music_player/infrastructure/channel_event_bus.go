package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher   = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber  = (*ChannelEventBus)(nil)
	_ ports.NotificationSink = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// Each event type has its own buffered channel and dispatcher goroutine, so
// handlers of one type observe events in publish order.
type ChannelEventBus struct {
	trackEnded    chan domain.TrackEndedEvent
	notifications chan domain.Notification

	trackEndedHandlers   []func(context.Context, domain.TrackEndedEvent)
	notificationHandlers []func(context.Context, domain.Notification)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackEnded:    make(chan domain.TrackEndedEvent, bufferSize),
		notifications: make(chan domain.Notification, bufferSize),
		ctx:           ctx,
		cancel:        cancel,
	}

	bus.wg.Add(2)
	go dispatch(bus, bus.trackEnded, func() []func(context.Context, domain.TrackEndedEvent) {
		return bus.trackEndedHandlers
	})
	go dispatch(bus, bus.notifications, func() []func(context.Context, domain.Notification) {
		return bus.notificationHandlers
	})

	return bus
}

// dispatch delivers events from ch to the handlers returned by handlers until
// the bus is closed.
func dispatch[E any](
	b *ChannelEventBus,
	ch <-chan E,
	handlers func() []func(context.Context, E),
) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.mu.RLock()
			hs := handlers()
			b.mu.RUnlock()
			for _, handler := range hs {
				handler(b.ctx, event)
			}
		}
	}
}

// publish sends event on ch without blocking. If the buffer is full the event
// is dropped with a warning.
func publish[E any](b *ChannelEventBus, ch chan<- E, event E, eventType string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType)
		return
	}

	select {
	case ch <- event:
		slog.Debug("published event", "type", eventType)
	default:
		slog.Warn("event buffer full, dropping event", "type", eventType)
	}
}

// --- EventPublisher interface ---

// PublishTrackEnded publishes a TrackEndedEvent.
func (b *ChannelEventBus) PublishTrackEnded(event domain.TrackEndedEvent) {
	publish(b, b.trackEnded, event, "TrackEnded")
}

// PublishNotification publishes a Notification.
func (b *ChannelEventBus) PublishNotification(notification domain.Notification) {
	publish(b, b.notifications, notification, "Notification")
}

// Notify implements ports.NotificationSink.
func (b *ChannelEventBus) Notify(notification domain.Notification) {
	b.PublishNotification(notification)
}

// --- EventSubscriber interface ---

// OnTrackEnded registers a handler for TrackEndedEvent.
func (b *ChannelEventBus) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEndedHandlers = append(b.trackEndedHandlers, handler)
}

// OnNotification registers a handler for Notification.
func (b *ChannelEventBus) OnNotification(handler func(context.Context, domain.Notification)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notificationHandlers = append(b.notificationHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()

	close(b.trackEnded)
	close(b.notifications)

	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
