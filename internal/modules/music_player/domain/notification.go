package domain

import "github.com/disgoorg/snowflake/v2"

// NotificationKind identifies a playback state transition.
type NotificationKind int

const (
	NotificationNowPlaying NotificationKind = iota
	NotificationTrackAdded
	NotificationPlaylistAdded
	NotificationPaused
	NotificationResumed
	NotificationStopped
	NotificationFinished
	NotificationShuffled
	NotificationVolumeChanged
	NotificationLoopModeChanged
	NotificationErrored
	NotificationDisconnected
	NotificationEmptyChannel
)

var notificationKindNames = map[NotificationKind]string{
	NotificationNowPlaying:      "now_playing",
	NotificationTrackAdded:      "track_added",
	NotificationPlaylistAdded:   "playlist_added",
	NotificationPaused:          "paused",
	NotificationResumed:         "resumed",
	NotificationStopped:         "stopped",
	NotificationFinished:        "finished",
	NotificationShuffled:        "shuffled",
	NotificationVolumeChanged:   "volume_changed",
	NotificationLoopModeChanged: "loop_mode_changed",
	NotificationErrored:         "errored",
	NotificationDisconnected:    "disconnected",
	NotificationEmptyChannel:    "empty_channel",
}

func (k NotificationKind) String() string {
	if name, ok := notificationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Notification reports one state transition of a guild queue.
// Only the fields relevant to Kind are set.
type Notification struct {
	Kind      NotificationKind
	GuildID   snowflake.ID
	ChannelID snowflake.ID // text channel the queue reports to

	Track        *Track
	Position     int // TrackAdded: position relative to the current track
	Remaining    int // NowPlaying: tracks after the current one
	PlaylistName string
	Count        int
	Volume       int
	LoopMode     LoopMode
	ErrorKind    string
	Message      string

	// Direct is set when the notification is also returned to the caller that
	// triggered it, so reply-capable surfaces have already shown it.
	Direct bool
}

func newNotification(kind NotificationKind, q *GuildQueue) Notification {
	return Notification{
		Kind:      kind,
		GuildID:   q.GuildID(),
		ChannelID: q.TextChannelID(),
	}
}

// NowPlaying reports the queue's current track.
func NowPlaying(q *GuildQueue) Notification {
	n := newNotification(NotificationNowPlaying, q)
	if current, ok := q.Current(); ok {
		n.Track = &current
	}
	n.Remaining = q.Remaining()
	n.LoopMode = q.LoopMode()
	n.Volume = q.Volume()
	return n
}

// TrackAdded reports a track appended at position.
func TrackAdded(q *GuildQueue, track Track, position int) Notification {
	n := newNotification(NotificationTrackAdded, q)
	n.Track = &track
	n.Position = position
	return n
}

// PlaylistAdded reports a batch of count tracks appended from a playlist.
func PlaylistAdded(q *GuildQueue, name string, count int) Notification {
	n := newNotification(NotificationPlaylistAdded, q)
	n.PlaylistName = name
	n.Count = count
	return n
}

// PauseChanged reports Paused or Resumed depending on the queue's state.
func PauseChanged(q *GuildQueue) Notification {
	if q.IsPaused() {
		return newNotification(NotificationPaused, q)
	}
	return newNotification(NotificationResumed, q)
}

// Stopped reports an explicit stop.
func Stopped(q *GuildQueue) Notification {
	return newNotification(NotificationStopped, q)
}

// Finished reports the queue running out of tracks.
func Finished(q *GuildQueue) Notification {
	return newNotification(NotificationFinished, q)
}

// Shuffled reports a shuffle of the upcoming tracks.
func Shuffled(q *GuildQueue) Notification {
	n := newNotification(NotificationShuffled, q)
	n.Count = q.Remaining()
	return n
}

// VolumeChanged reports the queue's new volume.
func VolumeChanged(q *GuildQueue) Notification {
	n := newNotification(NotificationVolumeChanged, q)
	n.Volume = q.Volume()
	return n
}

// LoopModeChanged reports the queue's new loop mode.
func LoopModeChanged(q *GuildQueue) Notification {
	n := newNotification(NotificationLoopModeChanged, q)
	n.LoopMode = q.LoopMode()
	return n
}

// Errored reports an unexpected failure. message is shortened with ShortErrorMessage.
func Errored(q *GuildQueue, kind, message string) Notification {
	n := newNotification(NotificationErrored, q)
	n.ErrorKind = kind
	n.Message = ShortErrorMessage(message)
	return n
}

// Disconnected reports the bot leaving voice without a command.
func Disconnected(q *GuildQueue) Notification {
	return newNotification(NotificationDisconnected, q)
}

// EmptyChannel reports the queue ending because no listeners remain.
func EmptyChannel(q *GuildQueue) Notification {
	return newNotification(NotificationEmptyChannel, q)
}
