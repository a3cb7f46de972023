package usecases

import "errors"

// Errors surfaced by the music player use cases. Each maps to a user-visible
// message; none of them leaves a guild queue in a partially updated state.
var (
	// ErrNotJoinable is returned when the caller is not in a voice channel the bot can join.
	ErrNotJoinable = errors.New("you must be in a voice channel the bot can join")

	// ErrResolutionFailed is returned when a play target yields no playable track.
	ErrResolutionFailed = errors.New("failed to resolve track")

	// ErrEmptyQueue is returned when an operation needs a queue and there is none,
	// or when the queue has too few tracks for the operation.
	ErrEmptyQueue = errors.New("nothing is playing")

	// ErrNoHistory is returned by previous when no finished track is retained.
	ErrNoHistory = errors.New("no previous track available")

	// ErrNoRecentSearch is returned when a search choice is used without a prior search.
	ErrNoRecentSearch = errors.New("no recent search")

	// ErrIndexOutOfRange is returned when a search choice exceeds the stored results.
	ErrIndexOutOfRange = errors.New("search choice out of range")

	// ErrInvalidArgument is returned for malformed or out-of-range arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSearchFailed is returned when the search backend fails.
	ErrSearchFailed = errors.New("search failed")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")
)
