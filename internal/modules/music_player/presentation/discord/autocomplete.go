package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// Discord drops autocomplete answers that take longer than three seconds.
const autocompleteTimeout = 2500 * time.Millisecond

// maxChoiceLength is Discord's limit for choice names and string values.
const maxChoiceLength = 100

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	searcher ports.TrackSearcher
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(searcher ports.TrackSearcher) *AutocompleteHandler {
	return &AutocompleteHandler{searcher: searcher}
}

// HandlePlay handles autocomplete for play command.
func (h *AutocompleteHandler) HandlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Get the current query value
	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), autocompleteTimeout)
	defer cancel()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: h.playChoices(ctx, query),
		},
	})
	if err != nil {
		slog.Debug("failed to answer autocomplete", "error", err)
	}
}

// playChoices suggests search hits for a partial query. URLs and search
// choices are played as typed, so they get no suggestions.
func (h *AutocompleteHandler) playChoices(
	ctx context.Context,
	query string,
) []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{}

	// Don't search for very short queries
	if len([]rune(query)) < 2 || domain.IsURL(query) {
		return choices
	}
	if _, ok := domain.ParseSearchChoice(query); ok {
		return choices
	}

	refs, err := h.searcher.Search(ctx, query, domain.MaxSearchResults)
	if err != nil {
		slog.Debug("autocomplete search failed", "query", query, "error", err)
		return choices
	}

	for _, ref := range refs {
		if len(ref.URL) > maxChoiceLength {
			continue
		}
		name := ref.Title
		if ref.Channel != "" {
			name = fmt.Sprintf("%s - %s", ref.Title, ref.Channel)
		}
		if ref.Duration > 0 {
			name = fmt.Sprintf("%s (%s)", name, domain.FormatDuration(ref.Duration))
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(name, maxChoiceLength),
			Value: ref.URL,
		})
	}
	return choices
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
