package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason is the engine's account of why the queue head stopped playing.
type TrackEndReason string

const (
	TrackEndFinished   TrackEndReason = "finished"    // played to the end
	TrackEndLoadFailed TrackEndReason = "load_failed" // engine could not load it
	TrackEndStopped    TrackEndReason = "stopped"     // we asked the engine to stop
	TrackEndReplaced   TrackEndReason = "replaced"    // a skip or previous started another entry
	TrackEndCleanup    TrackEndReason = "cleanup"     // engine dropped the player
)

// ShouldAdvanceQueue reports whether the end came from the engine rather than
// from a queue operation that has already moved the head.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// TrackEndedEvent is published by the playback engine when a track ends.
// EntryID identifies the queue entry that was playing, when the engine knows it.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	EntryID EntryID
	Reason  TrackEndReason
}
