package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// YTSearchSearcher searches YouTube by scraping the results page, without
// spawning yt-dlp.
type YTSearchSearcher struct {
	client *ytsearch.Client
}

// NewYTSearchSearcher creates a new YTSearchSearcher.
func NewYTSearchSearcher() *YTSearchSearcher {
	return &YTSearchSearcher{client: ytsearch.NewClient(nil)}
}

// Search implements ports.TrackSearcher.
func (s *YTSearchSearcher) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]domain.TrackReference, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	refs := make([]domain.TrackReference, 0, limit)
	for _, v := range res.Results {
		ref, ok := newYouTubeReference(v.VideoID, v.Title, v.Channel, 0)
		if !ok {
			continue
		}
		refs = append(refs, ref)
		if len(refs) == limit {
			break
		}
	}
	return refs, nil
}

// YTMusicSearcher searches YouTube Music tracks.
type YTMusicSearcher struct{}

// NewYTMusicSearcher creates a new YTMusicSearcher.
func NewYTMusicSearcher() *YTMusicSearcher {
	return &YTMusicSearcher{}
}

// Search implements ports.TrackSearcher. The ytmusic client takes no
// context, so cancellation is only observed between calls.
func (s *YTMusicSearcher) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]domain.TrackReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := ytmusic.TrackSearch(query).Next()
	if err != nil {
		return nil, fmt.Errorf("youtube music search: %w", err)
	}

	refs := make([]domain.TrackReference, 0, limit)
	for _, v := range res.Tracks {
		artist := ""
		if len(v.Artists) > 0 {
			artist = v.Artists[0].Name
		}
		ref, ok := newYouTubeReference(v.VideoID, v.Title, artist, time.Duration(v.Duration)*time.Second)
		if !ok {
			continue
		}
		refs = append(refs, ref)
		if len(refs) == limit {
			break
		}
	}
	return refs, ctx.Err()
}

// newYouTubeReference builds a reference to a YouTube video, rejecting
// non-video ids.
func newYouTubeReference(
	id, title, channel string,
	duration time.Duration,
) (domain.TrackReference, bool) {
	if !isVideoID(id) || title == "" {
		return domain.TrackReference{}, false
	}
	return domain.TrackReference{
		ID:       id,
		URL:      youtubeWatchURL + id,
		Title:    title,
		Channel:  channel,
		Duration: duration,
	}, true
}

var (
	_ ports.TrackSearcher = (*YTSearchSearcher)(nil)
	_ ports.TrackSearcher = (*YTMusicSearcher)(nil)
)
