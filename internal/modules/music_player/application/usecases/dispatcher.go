package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// Dispatcher maps normalized commands from every input surface onto the
// playback and search use cases.
type Dispatcher struct {
	playback *PlaybackController
	search   *SearchService
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(playback *PlaybackController, search *SearchService) *Dispatcher {
	return &Dispatcher{
		playback: playback,
		search:   search,
	}
}

// Submit executes cmd and returns its result.
func (d *Dispatcher) Submit(ctx context.Context, cmd Command) (*Result, error) {
	slog.Debug("dispatching command",
		"guild", cmd.GuildID,
		"op", cmd.Op.String(),
		"user", cmd.Requester.UserID,
	)

	switch cmd.Op {
	case OpPlay:
		return d.play(ctx, cmd)
	case OpSearch:
		results, err := d.search.Search(ctx, SearchInput{
			UserID: cmd.Requester.UserID,
			Query:  cmd.Query,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Search: &results}, nil
	case OpSkip:
		return notificationResult(d.playback.Skip(ctx, cmd.GuildID))
	case OpPrevious:
		return notificationResult(d.playback.Previous(ctx, cmd.GuildID))
	case OpPause:
		return notificationResult(d.playback.PauseToggle(ctx, cmd.GuildID))
	case OpStop:
		return notificationResult(d.playback.Stop(ctx, cmd.GuildID))
	case OpShuffle:
		return notificationResult(d.playback.Shuffle(ctx, cmd.GuildID))
	case OpVolume:
		return notificationResult(d.playback.SetVolume(ctx, cmd.GuildID, cmd.Volume))
	case OpLoop:
		if cmd.LoopMode == "" {
			return notificationResult(d.playback.CycleLoopMode(ctx, cmd.GuildID))
		}
		mode, ok := domain.ParseLoopMode(strings.ToLower(cmd.LoopMode))
		if !ok {
			return nil, fmt.Errorf("%w: unknown loop mode %q", ErrInvalidArgument, cmd.LoopMode)
		}
		return notificationResult(d.playback.SetLoopMode(ctx, cmd.GuildID, mode))
	case OpQueue:
		snapshot, err := d.playback.Snapshot(ctx, cmd.GuildID)
		if err != nil {
			return nil, err
		}
		return &Result{Queue: &snapshot}, nil
	case OpNowPlaying:
		return notificationResult(d.playback.NowPlaying(ctx, cmd.GuildID))
	case OpHelp:
		return &Result{Help: true}, nil
	default:
		return nil, fmt.Errorf("%w: unknown operation", ErrInvalidArgument)
	}
}

// play rewrites a bare "1".."5" target to the user's search choice and
// canonicalizes YouTube watch URLs before handing the target to playback.
func (d *Dispatcher) play(ctx context.Context, cmd Command) (*Result, error) {
	target := strings.TrimSpace(cmd.Query)
	if target == "" {
		return nil, fmt.Errorf("%w: nothing to play", ErrInvalidArgument)
	}

	if n, ok := domain.ParseSearchChoice(target); ok {
		ref, err := d.search.ResolveChoice(cmd.Requester.UserID, n)
		if err != nil {
			return nil, err
		}
		target = ref.URL
	}
	target = domain.CanonicalizeTarget(target)

	return notificationResult(d.playback.Play(ctx, PlayInput{
		GuildID:   cmd.GuildID,
		Target:    target,
		Requester: cmd.Requester,
	}))
}

func notificationResult(n domain.Notification, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return &Result{Notification: &n}, nil
}
