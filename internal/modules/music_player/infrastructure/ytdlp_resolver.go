package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

const (
	// DefaultPlaylistLimit caps how many playlist entries are enqueued at once.
	DefaultPlaylistLimit = 100

	youtubeWatchURL = "https://www.youtube.com/watch?v="

	ytdlpTrackFormat    = "%(id)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(webpage_url)s\t%(thumbnail)s\t%(is_live)s"
	ytdlpPlaylistFormat = "%(playlist_title)s\t%(id)s\t%(title)s\t%(uploader)s\t%(duration)s"
	ytdlpSearchFormat   = "%(id)s\t%(title)s\t%(uploader)s\t%(duration)s"

	// ytdlpMissing is what yt-dlp prints for absent fields.
	ytdlpMissing = "NA"
)

// YtdlpConfig configures the yt-dlp resolver.
type YtdlpConfig struct {
	// ExtractorArgs is passed as --extractor-args when non-empty.
	ExtractorArgs string
	PlaylistLimit int
}

// YtdlpResolver resolves play targets and runs searches through yt-dlp.
type YtdlpResolver struct {
	config YtdlpConfig
}

// NewYtdlpResolver creates a new YtdlpResolver.
func NewYtdlpResolver(config YtdlpConfig) *YtdlpResolver {
	if config.PlaylistLimit <= 0 {
		config.PlaylistLimit = DefaultPlaylistLimit
	}
	return &YtdlpResolver{config: config}
}

func (r *YtdlpResolver) command() *ytdlp.Command {
	return ytdlp.New().
		NoWarnings().
		IgnoreConfig()
}

func (r *YtdlpResolver) args(extra ...string) []string {
	var args []string
	if r.config.ExtractorArgs != "" {
		args = append(args, "--extractor-args", r.config.ExtractorArgs)
	}
	return append(args, extra...)
}

// Resolve turns a URL, playlist URL or free-text query into tracks.
// Free text resolves to the first search hit.
func (r *YtdlpResolver) Resolve(ctx context.Context, query string) (*ports.Resolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ports.ErrNotFound
	}

	if domain.IsPlaylistTarget(query) {
		return r.resolvePlaylist(ctx, query)
	}

	target := query
	if !domain.IsURL(query) {
		target = "ytsearch1:" + query
	}

	res, err := r.command().
		Print(ytdlpTrackFormat).
		Run(ctx, r.args("--skip-download", "--no-playlist", target)...)
	if err != nil {
		return nil, extractionError(ctx, res, err)
	}

	for _, line := range outputLines(res.Stdout) {
		if track, ok := parseTrackLine(line); ok {
			return &ports.Resolution{Track: &track}, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *YtdlpResolver) resolvePlaylist(ctx context.Context, target string) (*ports.Resolution, error) {
	res, err := r.command().
		FlatPlaylist().
		Print(ytdlpPlaylistFormat).
		PlaylistItems(fmt.Sprintf("1-%d", r.config.PlaylistLimit)).
		Run(ctx, r.args("--yes-playlist", target)...)
	if err != nil {
		return nil, extractionError(ctx, res, err)
	}

	playlist := parsePlaylistOutput(res.Stdout)
	if len(playlist.Tracks) == 0 {
		return nil, ports.ErrNotFound
	}

	slog.Debug("resolved playlist", "name", playlist.Name, "tracks", len(playlist.Tracks))
	return &ports.Resolution{Playlist: playlist}, nil
}

// Search lists up to limit videos for query. Channel and playlist hits are
// dropped.
func (r *YtdlpResolver) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]domain.TrackReference, error) {
	res, err := r.command().
		FlatPlaylist().
		Print(ytdlpSearchFormat).
		PlaylistItems(fmt.Sprintf("1-%d", limit)).
		Run(ctx, r.args(fmt.Sprintf("ytsearch%d:%s", limit, query))...)
	if err != nil {
		return nil, extractionError(ctx, res, err)
	}
	return parseSearchOutput(res.Stdout, limit), nil
}

// extractionError wraps yt-dlp's stderr, which names the actual failure.
// A cancelled or timed-out ctx is returned as is.
func extractionError(ctx context.Context, res *ytdlp.Result, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}
	msg := ""
	if res != nil {
		msg = strings.TrimSpace(res.Stderr)
	}
	if msg == "" {
		msg = err.Error()
	}
	return &ports.ExtractionError{Message: domain.ShortErrorMessage(msg)}
}

func outputLines(stdout string) []string {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return nil
	}
	return strings.Split(stdout, "\n")
}

// parseTrackLine parses one line printed with ytdlpTrackFormat.
func parseTrackLine(line string) (domain.Track, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 7 {
		return domain.Track{}, false
	}

	id, title := field(fields[0]), field(fields[1])
	url := field(fields[4])
	if url == "" && id != "" {
		url = youtubeWatchURL + id
	}

	track := domain.Track{
		Title:     title,
		URL:       url,
		Channel:   field(fields[2]),
		Duration:  parseSeconds(fields[3]),
		Thumbnail: field(fields[5]),
		IsStream:  field(fields[6]) == "True",
	}
	return track, track.IsValid()
}

// parsePlaylistOutput parses lines printed with ytdlpPlaylistFormat.
// Entries without an id or title (deleted or private videos) are skipped.
func parsePlaylistOutput(stdout string) *domain.Playlist {
	playlist := &domain.Playlist{}
	for _, line := range outputLines(stdout) {
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		if playlist.Name == "" {
			playlist.Name = field(fields[0])
		}

		id, title := field(fields[1]), field(fields[2])
		if id == "" || title == "" {
			continue
		}
		playlist.Tracks = append(playlist.Tracks, domain.Track{
			Title:    title,
			URL:      youtubeWatchURL + id,
			Channel:  field(fields[3]),
			Duration: parseSeconds(fields[4]),
		})
	}
	if playlist.Name == "" {
		playlist.Name = "Playlist"
	}
	return playlist
}

// parseSearchOutput parses lines printed with ytdlpSearchFormat.
func parseSearchOutput(stdout string, limit int) []domain.TrackReference {
	refs := make([]domain.TrackReference, 0, limit)
	for _, line := range outputLines(stdout) {
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}

		id := field(fields[0])
		if !isVideoID(id) {
			continue
		}
		refs = append(refs, domain.TrackReference{
			ID:       id,
			URL:      youtubeWatchURL + id,
			Title:    field(fields[1]),
			Channel:  field(fields[2]),
			Duration: parseSeconds(fields[3]),
		})
		if len(refs) == limit {
			break
		}
	}
	return refs
}

// isVideoID rejects empty ids and channel (UC...) or playlist (PL...) ids.
func isVideoID(id string) bool {
	return id != "" && !strings.HasPrefix(id, "UC") && !strings.HasPrefix(id, "PL")
}

func field(s string) string {
	s = strings.TrimSpace(s)
	if s == ytdlpMissing {
		return ""
	}
	return s
}

// parseSeconds parses yt-dlp's duration field, which may be fractional or NA.
func parseSeconds(s string) time.Duration {
	seconds, err := strconv.ParseFloat(field(s), 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

var (
	_ ports.TrackResolver = (*YtdlpResolver)(nil)
	_ ports.TrackSearcher = (*YtdlpResolver)(nil)
)
