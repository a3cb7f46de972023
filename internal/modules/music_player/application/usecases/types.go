package usecases

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// Requester identifies who issued a command and where.
type Requester struct {
	UserID        snowflake.ID
	DisplayName   string
	TextChannelID snowflake.ID
}

// Operation is a playback command understood by the Dispatcher.
type Operation int

const (
	OpPlay Operation = iota + 1
	OpSearch
	OpSkip
	OpPrevious
	OpPause
	OpStop
	OpShuffle
	OpVolume
	OpLoop
	OpQueue
	OpNowPlaying
	OpHelp
)

var operationNames = map[Operation]string{
	OpPlay:       "play",
	OpSearch:     "search",
	OpSkip:       "skip",
	OpPrevious:   "previous",
	OpPause:      "pause",
	OpStop:       "stop",
	OpShuffle:    "shuffle",
	OpVolume:     "volume",
	OpLoop:       "loop",
	OpQueue:      "queue",
	OpNowPlaying: "nowplaying",
	OpHelp:       "help",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}

// Command is one normalized request from any input surface.
type Command struct {
	GuildID   snowflake.ID
	Op        Operation
	Requester Requester

	// Query is the play target or search text.
	Query string
	// Volume is the requested volume for OpVolume.
	Volume int
	// LoopMode, when non-empty, selects a loop mode instead of cycling.
	LoopMode string
}

// Result is the outcome of a successfully dispatched Command.
// Exactly one field is set.
type Result struct {
	Notification *domain.Notification
	Search       *domain.SearchResults
	Queue        *domain.QueueSnapshot
	Help         bool
}
