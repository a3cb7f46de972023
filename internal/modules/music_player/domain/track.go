package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// EntryID uniquely identifies one occurrence of a track in a queue.
// The same song enqueued twice has two entry IDs.
type EntryID string

// NewEntryID returns a fresh random EntryID.
func NewEntryID() EntryID {
	return EntryID(uuid.NewString())
}

// Track represents a resolved, playable audio track.
// Tracks are values; a queue owns its copies.
type Track struct {
	EntryID       EntryID       `json:"entry_id"`
	Encoded       string        `json:"-"` // engine-specific payload, empty when the engine loads by URL
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Channel       string        `json:"channel,omitempty"`
	Thumbnail     string        `json:"thumbnail,omitempty"`
	Duration      time.Duration `json:"duration"`
	IsStream      bool          `json:"is_stream"`
	RequesterID   snowflake.ID  `json:"requester_id"`
	RequesterName string        `json:"requester_name,omitempty"`
	EnqueuedAt    time.Time     `json:"enqueued_at"`
}

// IsValid returns true if the track has the minimum required fields.
func (t Track) IsValid() bool {
	return t.URL != "" && t.Title != ""
}

// Requested returns a copy of t stamped with a new entry ID and the requester.
func (t Track) Requested(requesterID snowflake.ID, requesterName string) Track {
	t.EntryID = NewEntryID()
	t.RequesterID = requesterID
	t.RequesterName = requesterName
	t.EnqueuedAt = time.Now().UTC()
	return t
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}
	return FormatDuration(t.Duration)
}

// FormatDuration renders d as mm:ss, or hh:mm:ss when it spans an hour or more.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// TrackReference is an unresolved pointer to a track, as returned by search.
type TrackReference struct {
	ID       string
	URL      string
	Title    string
	Channel  string
	Duration time.Duration
}

// Playlist is a named, ordered batch of resolved tracks.
type Playlist struct {
	Name   string
	Tracks []Track
}
