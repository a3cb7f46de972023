package ports

import (
	"context"
	"errors"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// ErrNotFound is returned when a query resolves to nothing.
var ErrNotFound = errors.New("no track found")

// ExtractionError carries the extractor's own failure output.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Message
}

// Resolution is the outcome of resolving a play target.
// Exactly one of Track and Playlist is set.
type Resolution struct {
	Track    *domain.Track
	Playlist *domain.Playlist
}

// Tracks returns the resolved tracks in order.
func (r *Resolution) Tracks() []domain.Track {
	switch {
	case r == nil:
		return nil
	case r.Playlist != nil:
		return r.Playlist.Tracks
	case r.Track != nil:
		return []domain.Track{*r.Track}
	default:
		return nil
	}
}

// TrackResolver turns a URL or free-text query into playable tracks.
type TrackResolver interface {
	// Resolve returns a single track or a playlist.
	// Fails with ErrNotFound or *ExtractionError.
	Resolve(ctx context.Context, query string) (*Resolution, error)
}

// TrackSearcher lists candidate tracks for a free-text query.
type TrackSearcher interface {
	// Search returns at most limit references in relevance order.
	Search(ctx context.Context, query string, limit int) ([]domain.TrackReference, error)
}
