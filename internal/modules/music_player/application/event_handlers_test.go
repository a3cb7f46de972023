package application

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

type mockSubscriber struct {
	trackEnded   []func(context.Context, domain.TrackEndedEvent)
	notification []func(context.Context, domain.Notification)
}

func (m *mockSubscriber) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	m.trackEnded = append(m.trackEnded, handler)
}

func (m *mockSubscriber) OnNotification(handler func(context.Context, domain.Notification)) {
	m.notification = append(m.notification, handler)
}

type mockTrackEndedHandler struct {
	events []domain.TrackEndedEvent
	err    error
}

func (m *mockTrackEndedHandler) HandleTrackEnded(_ context.Context, event domain.TrackEndedEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockSender struct {
	sent []domain.Notification
	err  error
}

func (m *mockSender) Send(_ context.Context, n domain.Notification) error {
	m.sent = append(m.sent, n)
	return m.err
}

func TestPlaybackEventHandler_ForwardsTrackEnded(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "controller error is logged", err: errors.New("executor closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subscriber := &mockSubscriber{}
			controller := &mockTrackEndedHandler{err: tt.err}
			NewPlaybackEventHandler(controller, subscriber).Start()

			if len(subscriber.trackEnded) != 1 {
				t.Fatalf("expected one TrackEnded subscription, got %d", len(subscriber.trackEnded))
			}

			event := domain.TrackEndedEvent{
				GuildID: snowflake.ID(1),
				EntryID: domain.NewEntryID(),
				Reason:  domain.TrackEndFinished,
			}
			subscriber.trackEnded[0](context.Background(), event)

			if len(controller.events) != 1 || controller.events[0] != event {
				t.Errorf("controller received %v, want [%v]", controller.events, event)
			}
		})
	}
}

func TestNotificationEventHandler(t *testing.T) {
	tests := []struct {
		name     string
		n        domain.Notification
		sendErr  error
		wantSent int
	}{
		{
			name:     "engine notification is delivered",
			n:        domain.Notification{Kind: domain.NotificationNowPlaying, GuildID: 1, ChannelID: 3},
			wantSent: 1,
		},
		{
			name: "direct reply is skipped",
			n:    domain.Notification{Kind: domain.NotificationTrackAdded, GuildID: 1, ChannelID: 3, Direct: true},
		},
		{
			name: "missing channel is skipped",
			n:    domain.Notification{Kind: domain.NotificationFinished, GuildID: 1},
		},
		{
			name:     "delivery failure is swallowed",
			n:        domain.Notification{Kind: domain.NotificationErrored, GuildID: 1, ChannelID: 3},
			sendErr:  errors.New("missing access"),
			wantSent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subscriber := &mockSubscriber{}
			sender := &mockSender{err: tt.sendErr}
			NewNotificationEventHandler(subscriber, sender).Start()

			if len(subscriber.notification) != 1 {
				t.Fatalf("expected one notification subscription, got %d", len(subscriber.notification))
			}
			subscriber.notification[0](context.Background(), tt.n)

			if len(sender.sent) != tt.wantSent {
				t.Errorf("sent = %d, want %d", len(sender.sent), tt.wantSent)
			}
		})
	}
}
