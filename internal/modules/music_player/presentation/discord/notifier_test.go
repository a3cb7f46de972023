package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

func TestNotifier_Send(t *testing.T) {
	messenger := &mockMessenger{}
	n := NewNotifier(messenger, NewRenderer("!"), 10, 5)
	track := testTrack("abc")

	err := n.Send(context.Background(), domain.Notification{
		Kind:      domain.NotificationNowPlaying,
		ChannelID: 200,
		Track:     &track,
		Remaining: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if messenger.count() != 1 {
		t.Fatalf("expected 1 message, got %d", messenger.count())
	}
	if messenger.channels[0] != "200" {
		t.Errorf("expected channel 200, got %s", messenger.channels[0])
	}
	if len(messenger.messages[0].Components) != 1 {
		t.Error("expected now playing controls")
	}
}

func TestNotifier_Send_MessengerError(t *testing.T) {
	sendErr := errors.New("missing access")
	messenger := &mockMessenger{err: sendErr}
	n := NewNotifier(messenger, NewRenderer("!"), 10, 5)

	err := n.Send(context.Background(), domain.Notification{Kind: domain.NotificationStopped, ChannelID: 200})
	if !errors.Is(err, sendErr) {
		t.Errorf("expected %v, got %v", sendErr, err)
	}
}

func TestNotifier_Send_ThrottledPerChannel(t *testing.T) {
	messenger := &mockMessenger{}
	// One message per ten seconds with no burst beyond the first
	n := NewNotifier(messenger, NewRenderer("!"), 0.1, 1)

	if err := n.Send(context.Background(), domain.Notification{Kind: domain.NotificationPaused, ChannelID: 200}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Send(ctx, domain.Notification{Kind: domain.NotificationResumed, ChannelID: 200}); err == nil {
		t.Error("expected second message on the same channel to wait for the limiter")
	}

	if err := n.Send(context.Background(), domain.Notification{Kind: domain.NotificationResumed, ChannelID: 201}); err != nil {
		t.Errorf("expected other channels to be unaffected, got %v", err)
	}

	if messenger.count() != 2 {
		t.Errorf("expected 2 messages, got %d", messenger.count())
	}
}
