package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	// DefaultVolume is the volume a new queue starts with.
	DefaultVolume = 50
	// MinVolume and MaxVolume bound the accepted volume range.
	MinVolume = 0
	MaxVolume = 100
	// MaxHistory is the number of finished tracks retained for previous().
	MaxHistory = 50
)

// ErrVolumeOutOfRange is returned when a volume outside [MinVolume, MaxVolume] is set.
var ErrVolumeOutOfRange = errors.New("volume out of range")

// GuildQueue holds one guild's playback state.
// Position 0 of the track sequence is the track currently playing; the
// sequence is never empty while the queue is registered.
// GuildQueue is not safe for concurrent use; callers serialize access per guild.
type GuildQueue struct {
	guildID        snowflake.ID
	voiceChannelID snowflake.ID
	textChannelID  snowflake.ID

	tracks  []Track
	history []Track

	loopMode  LoopMode
	volume    int
	paused    bool
	createdAt time.Time
}

// NewGuildQueue creates an empty GuildQueue bound to the given channels.
func NewGuildQueue(guildID, voiceChannelID, textChannelID snowflake.ID, volume int) *GuildQueue {
	if volume < MinVolume || volume > MaxVolume {
		volume = DefaultVolume
	}
	return &GuildQueue{
		guildID:        guildID,
		voiceChannelID: voiceChannelID,
		textChannelID:  textChannelID,
		tracks:         make([]Track, 0),
		loopMode:       LoopModeOff,
		volume:         volume,
		createdAt:      time.Now().UTC(),
	}
}

// GuildID returns the guild this queue belongs to.
func (q *GuildQueue) GuildID() snowflake.ID {
	return q.guildID
}

// VoiceChannelID returns the voice channel the bot plays into.
func (q *GuildQueue) VoiceChannelID() snowflake.ID {
	return q.voiceChannelID
}

// SetVoiceChannelID records a move to another voice channel.
func (q *GuildQueue) SetVoiceChannelID(id snowflake.ID) {
	q.voiceChannelID = id
}

// TextChannelID returns the channel notifications are delivered to.
func (q *GuildQueue) TextChannelID() snowflake.ID {
	return q.textChannelID
}

// SetTextChannelID moves notifications to the channel of the latest command.
func (q *GuildQueue) SetTextChannelID(id snowflake.ID) {
	if id != 0 {
		q.textChannelID = id
	}
}

// IsEmpty returns true if the queue has no tracks.
func (q *GuildQueue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Len returns the number of tracks including the current one.
func (q *GuildQueue) Len() int {
	return len(q.tracks)
}

// Current returns the track at position 0.
func (q *GuildQueue) Current() (Track, bool) {
	if q.IsEmpty() {
		return Track{}, false
	}
	return q.tracks[0], true
}

// Upcoming returns a copy of the tracks after position 0.
func (q *GuildQueue) Upcoming() []Track {
	if len(q.tracks) < 2 {
		return []Track{}
	}
	return slices.Clone(q.tracks[1:])
}

// Remaining returns the number of tracks after position 0.
func (q *GuildQueue) Remaining() int {
	return max(len(q.tracks)-1, 0)
}

// History returns a copy of the retained finished tracks, oldest first.
func (q *GuildQueue) History() []Track {
	return slices.Clone(q.history)
}

// Append adds tracks to the end of the queue and returns the position of
// the first appended track (0 when it became the current track).
func (q *GuildQueue) Append(tracks ...Track) int {
	position := len(q.tracks)
	q.tracks = append(q.tracks, tracks...)
	return position
}

// Skip advances past the current track regardless of Track loop mode.
// In Queue loop mode the current track is moved to the end instead of dropped.
// Returns false when the queue is exhausted.
func (q *GuildQueue) Skip() (Track, bool) {
	if q.IsEmpty() {
		return Track{}, false
	}

	head := q.tracks[0]
	q.pushHistory(head)

	if q.loopMode == LoopModeQueue {
		q.tracks = append(q.tracks[1:], head)
	} else {
		q.tracks = q.tracks[1:]
	}

	return q.Current()
}

// Advance moves to the next track after a natural completion, honoring the loop mode.
func (q *GuildQueue) Advance() (Track, bool) {
	if q.loopMode == LoopModeTrack {
		return q.Current()
	}
	return q.Skip()
}

// DropCurrent removes the current track without recording it in history.
// Used when the current track could not be played.
func (q *GuildQueue) DropCurrent() (Track, bool) {
	if q.IsEmpty() {
		return Track{}, false
	}
	q.tracks = q.tracks[1:]
	return q.Current()
}

// Previous moves the most recently finished track back to position 0.
// Returns false if no history is retained.
func (q *GuildQueue) Previous() (Track, bool) {
	if len(q.history) == 0 {
		return Track{}, false
	}

	last := len(q.history) - 1
	prev := q.history[last]
	q.history = q.history[:last]

	// Queue loop mode keeps skipped entries in the queue, possibly reordered by a shuffle.
	if i := slices.IndexFunc(q.tracks, func(t Track) bool { return t.EntryID == prev.EntryID }); i >= 0 {
		q.tracks = slices.Delete(q.tracks, i, i+1)
	}

	q.tracks = slices.Insert(q.tracks, 0, prev)
	return prev, true
}

// Shuffle permutes the tracks after position 0 using the given shuffle function
// (typically rand.Shuffle). Returns false if fewer than two tracks are upcoming.
func (q *GuildQueue) Shuffle(shuffle func(n int, swap func(i, j int))) bool {
	if q.Remaining() < 2 {
		return false
	}

	upcoming := q.tracks[1:]
	shuffle(len(upcoming), func(i, j int) {
		upcoming[i], upcoming[j] = upcoming[j], upcoming[i]
	})
	return true
}

// Clear removes every track and the history.
func (q *GuildQueue) Clear() {
	q.tracks = q.tracks[:0]
	q.history = nil
}

// LoopMode returns the current loop mode.
func (q *GuildQueue) LoopMode() LoopMode {
	return q.loopMode
}

// SetLoopMode sets the loop mode.
func (q *GuildQueue) SetLoopMode(mode LoopMode) {
	q.loopMode = mode
}

// CycleLoopMode advances the loop mode to the next one and returns it.
func (q *GuildQueue) CycleLoopMode() LoopMode {
	q.loopMode = q.loopMode.Next()
	return q.loopMode
}

// Volume returns the playback volume.
func (q *GuildQueue) Volume() int {
	return q.volume
}

// SetVolume sets the playback volume.
func (q *GuildQueue) SetVolume(volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrVolumeOutOfRange
	}
	q.volume = volume
	return nil
}

// IsPaused returns true if playback is paused.
func (q *GuildQueue) IsPaused() bool {
	return q.paused
}

// SetPaused sets the paused flag.
func (q *GuildQueue) SetPaused(paused bool) {
	q.paused = paused
}

// TogglePaused flips the paused flag and returns the new value.
func (q *GuildQueue) TogglePaused() bool {
	q.paused = !q.paused
	return q.paused
}

// Snapshot returns a copy of the queue state safe to hand to other goroutines.
func (q *GuildQueue) Snapshot() QueueSnapshot {
	snapshot := QueueSnapshot{
		GuildID:        q.guildID,
		VoiceChannelID: q.voiceChannelID,
		TextChannelID:  q.textChannelID,
		Upcoming:       q.Upcoming(),
		LoopMode:       q.loopMode,
		Volume:         q.volume,
		Paused:         q.paused,
		HistoryLen:     len(q.history),
		CreatedAt:      q.createdAt,
	}
	if current, ok := q.Current(); ok {
		snapshot.Current = &current
	}
	return snapshot
}

func (q *GuildQueue) pushHistory(track Track) {
	q.history = append(q.history, track)
	if len(q.history) > MaxHistory {
		q.history = slices.Delete(q.history, 0, len(q.history)-MaxHistory)
	}
}

// QueueSnapshot is a read-only copy of a GuildQueue.
type QueueSnapshot struct {
	GuildID        snowflake.ID `json:"guild_id"`
	VoiceChannelID snowflake.ID `json:"voice_channel_id"`
	TextChannelID  snowflake.ID `json:"text_channel_id"`
	Current        *Track       `json:"current,omitempty"`
	Upcoming       []Track      `json:"upcoming"`
	LoopMode       LoopMode     `json:"loop_mode"`
	Volume         int          `json:"volume"`
	Paused         bool         `json:"paused"`
	HistoryLen     int          `json:"history_len"`
	CreatedAt      time.Time    `json:"created_at"`
}
