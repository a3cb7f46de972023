package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
)

// ButtonPrefix is the custom ID prefix of the now-playing control buttons.
const ButtonPrefix = "music"

// Button custom IDs.
const (
	buttonPrevious = ButtonPrefix + ":previous"
	buttonPause    = ButtonPrefix + ":pause"
	buttonStop     = ButtonPrefix + ":stop"
	buttonSkip     = ButtonPrefix + ":skip"
	buttonQueue    = ButtonPrefix + ":queue"
)

var textAliases = map[string]usecases.Operation{
	"play":       usecases.OpPlay,
	"p":          usecases.OpPlay,
	"search":     usecases.OpSearch,
	"s":          usecases.OpSearch,
	"skip":       usecases.OpSkip,
	"sk":         usecases.OpSkip,
	"stop":       usecases.OpStop,
	"pause":      usecases.OpPause,
	"previous":   usecases.OpPrevious,
	"prev":       usecases.OpPrevious,
	"queue":      usecases.OpQueue,
	"q":          usecases.OpQueue,
	"volume":     usecases.OpVolume,
	"vol":        usecases.OpVolume,
	"loop":       usecases.OpLoop,
	"shuffle":    usecases.OpShuffle,
	"nowplaying": usecases.OpNowPlaying,
	"np":         usecases.OpNowPlaying,
	"help":       usecases.OpHelp,
}

var slashOperations = map[string]usecases.Operation{
	"play":       usecases.OpPlay,
	"search":     usecases.OpSearch,
	"skip":       usecases.OpSkip,
	"previous":   usecases.OpPrevious,
	"pause":      usecases.OpPause,
	"stop":       usecases.OpStop,
	"shuffle":    usecases.OpShuffle,
	"volume":     usecases.OpVolume,
	"loop":       usecases.OpLoop,
	"queue":      usecases.OpQueue,
	"nowplaying": usecases.OpNowPlaying,
	"help":       usecases.OpHelp,
}

var buttonOperations = map[string]usecases.Operation{
	buttonPrevious: usecases.OpPrevious,
	buttonPause:    usecases.OpPause,
	buttonStop:     usecases.OpStop,
	buttonSkip:     usecases.OpSkip,
	buttonQueue:    usecases.OpQueue,
}

// ParseTextCommand parses a prefixed chat message such as "!play never gonna".
// ok is false when the message is not a music command at all.
// GuildID and Requester are left for the caller to fill in.
func ParseTextCommand(prefix, content string) (cmd usecases.Command, ok bool, err error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(content), prefix)
	if !found || prefix == "" {
		return usecases.Command{}, false, nil
	}

	name, args, _ := strings.Cut(strings.TrimSpace(rest), " ")
	op, known := textAliases[strings.ToLower(name)]
	if !known {
		return usecases.Command{}, false, nil
	}

	cmd, err = newCommand(op, strings.TrimSpace(args))
	return cmd, true, err
}

// ParseSlashCommand converts slash command data into a Command.
func ParseSlashCommand(data discordgo.ApplicationCommandInteractionData) (usecases.Command, error) {
	op, ok := slashOperations[data.Name]
	if !ok {
		return usecases.Command{}, fmt.Errorf("%w: unknown command %q", usecases.ErrInvalidArgument, data.Name)
	}

	cmd := usecases.Command{Op: op}
	for _, opt := range data.Options {
		switch opt.Name {
		case "query":
			cmd.Query = strings.TrimSpace(opt.StringValue())
		case "level":
			cmd.Volume = int(opt.IntValue())
		case "mode":
			cmd.LoopMode = opt.StringValue()
		}
	}

	if op == usecases.OpPlay || op == usecases.OpSearch {
		if cmd.Query == "" {
			return usecases.Command{}, fmt.Errorf("%w: %s needs a query", usecases.ErrInvalidArgument, op)
		}
	}
	return cmd, nil
}

// ParseButton converts a control button custom ID into a Command.
func ParseButton(customID string) (usecases.Command, error) {
	op, ok := buttonOperations[customID]
	if !ok {
		return usecases.Command{}, fmt.Errorf("%w: unknown button %q", usecases.ErrInvalidArgument, customID)
	}
	return usecases.Command{Op: op}, nil
}

func newCommand(op usecases.Operation, args string) (usecases.Command, error) {
	cmd := usecases.Command{Op: op}

	switch op {
	case usecases.OpPlay, usecases.OpSearch:
		if args == "" {
			return usecases.Command{}, fmt.Errorf("%w: %s needs a query", usecases.ErrInvalidArgument, op)
		}
		cmd.Query = args
	case usecases.OpVolume:
		volume, err := strconv.Atoi(args)
		if err != nil {
			return usecases.Command{}, fmt.Errorf("%w: volume must be a number from 0 to 100", usecases.ErrInvalidArgument)
		}
		cmd.Volume = volume
	case usecases.OpLoop:
		cmd.LoopMode = args
	}

	return cmd, nil
}

// requester builds the Requester for a member or user posting in channelID.
func requester(member *discordgo.Member, user *discordgo.User, channelID string) (usecases.Requester, error) {
	if member != nil && member.User != nil {
		user = member.User
	}
	if user == nil {
		return usecases.Requester{}, fmt.Errorf("%w: missing user", usecases.ErrInvalidArgument)
	}

	userID, err := snowflake.Parse(user.ID)
	if err != nil {
		return usecases.Requester{}, fmt.Errorf("invalid user ID: %w", err)
	}
	textChannelID, err := snowflake.Parse(channelID)
	if err != nil {
		return usecases.Requester{}, fmt.Errorf("invalid channel ID: %w", err)
	}

	name := user.GlobalName
	if member != nil && member.Nick != "" {
		name = member.Nick
	}
	if name == "" {
		name = user.Username
	}

	return usecases.Requester{
		UserID:        userID,
		DisplayName:   name,
		TextChannelID: textChannelID,
	}, nil
}
