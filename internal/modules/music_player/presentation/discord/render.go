package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorAccent  = 0xFF0000
	colorInfo    = 0x5865F2
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// maxQueueLines is how many upcoming tracks the queue view lists.
const maxQueueLines = 10

// Message is a rendered reply or channel message.
type Message struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

func (m Message) messageSend() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     m.Embeds,
		Components: m.Components,
	}
}

func (m Message) responseData() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Embeds:     m.Embeds,
		Components: m.Components,
	}
}

func (m Message) webhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Embeds:     m.Embeds,
		Components: m.Components,
	}
}

func (m Message) webhookEdit() *discordgo.WebhookEdit {
	embeds := m.Embeds
	components := m.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}
}

// Renderer turns use case results, notifications and errors into Discord
// messages. Replies and channel notifications share it so they look alike.
type Renderer struct {
	prefix string
}

// NewRenderer creates a Renderer; prefix is the text command prefix shown in hints.
func NewRenderer(prefix string) *Renderer {
	return &Renderer{prefix: prefix}
}

// Result renders the outcome of a dispatched command.
func (r *Renderer) Result(res *usecases.Result) Message {
	switch {
	case res == nil:
		return Message{}
	case res.Notification != nil:
		return r.Notification(*res.Notification)
	case res.Search != nil:
		return r.SearchResults(*res.Search)
	case res.Queue != nil:
		return r.Queue(*res.Queue)
	case res.Help:
		return r.Help()
	default:
		return Message{}
	}
}

// Notification renders a playback state transition.
func (r *Renderer) Notification(n domain.Notification) Message {
	switch n.Kind {
	case domain.NotificationNowPlaying:
		return r.nowPlaying(n)
	case domain.NotificationTrackAdded:
		return simple(colorSuccess, fmt.Sprintf("✅ Added %s to the queue! Position: #%d",
			trackLink(n.Track), n.Position))
	case domain.NotificationPlaylistAdded:
		return simple(colorSuccess, fmt.Sprintf("✅ Added playlist **%s** (%d songs) to the queue!",
			n.PlaylistName, n.Count))
	case domain.NotificationPaused:
		return simple(colorSuccess, "⏸ Paused!")
	case domain.NotificationResumed:
		return simple(colorSuccess, "▶️ Resumed!")
	case domain.NotificationStopped:
		return simple(colorSuccess, "⏹ Stopped and cleared the queue!")
	case domain.NotificationFinished:
		return simple(colorSuccess, fmt.Sprintf("✅ Queue finished! Use `%splay` to add more songs.", r.prefix))
	case domain.NotificationShuffled:
		return simple(colorSuccess, "🔀 Queue shuffled!")
	case domain.NotificationVolumeChanged:
		return simple(colorSuccess, fmt.Sprintf("🔊 Volume set to **%d%%**", n.Volume))
	case domain.NotificationLoopModeChanged:
		return simple(colorSuccess, fmt.Sprintf("🔁 Loop mode: **%s**", loopModeLabel(n.LoopMode)))
	case domain.NotificationErrored:
		return simple(colorError, "❌ An error occurred: "+n.Message)
	case domain.NotificationDisconnected:
		return simple(colorInfo, "👋 Disconnected from voice channel.")
	case domain.NotificationEmptyChannel:
		return simple(colorInfo, "🔇 Voice channel is empty, leaving...")
	default:
		return Message{}
	}
}

func (r *Renderer) nowPlaying(n domain.Notification) Message {
	if n.Track == nil {
		return simple(colorInfo, "Nothing is playing.")
	}
	track := n.Track

	requestedBy := track.RequesterName
	if requestedBy == "" {
		requestedBy = "Unknown"
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Now Playing",
		Description: fmt.Sprintf("**%s**", trackLink(track)),
		Color:       colorAccent,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
			{Name: "Requested by", Value: requestedBy, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d track(s) remaining in queue", n.Remaining),
		},
	}
	if track.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
	}

	return Message{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: controlButtons(),
	}
}

func controlButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: buttonPrevious, Label: "⏮ Prev", Style: discordgo.SecondaryButton},
				discordgo.Button{CustomID: buttonPause, Label: "⏸ Pause", Style: discordgo.SecondaryButton},
				discordgo.Button{CustomID: buttonStop, Label: "⏹ Stop", Style: discordgo.DangerButton},
				discordgo.Button{CustomID: buttonSkip, Label: "⏭ Skip", Style: discordgo.SecondaryButton},
				discordgo.Button{CustomID: buttonQueue, Label: "📋 Queue", Style: discordgo.PrimaryButton},
			},
		},
	}
}

// SearchResults renders a numbered result list the user can pick from.
func (r *Renderer) SearchResults(results domain.SearchResults) Message {
	var sb strings.Builder
	for i, ref := range results.References {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		duration := "Unknown"
		if ref.Duration > 0 {
			duration = domain.FormatDuration(ref.Duration)
		}
		channel := ref.Channel
		if channel == "" {
			channel = "Unknown"
		}
		fmt.Fprintf(&sb, "**%d.** [%s](%s)\n└ %s • %s", i+1, ref.Title, ref.URL, channel, duration)
	}

	return Message{Embeds: []*discordgo.MessageEmbed{{
		Title:       "🔍 Search Results for: " + results.Query,
		Description: sb.String(),
		Color:       colorAccent,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Type %splay 1-%d to play a result", r.prefix, domain.MaxSearchResults),
		},
	}}}
}

// Queue renders the current track, the next upcoming tracks, loop mode and volume.
func (r *Renderer) Queue(snapshot domain.QueueSnapshot) Message {
	embed := &discordgo.MessageEmbed{
		Title: "📋 Music Queue",
		Color: colorInfo,
	}

	if snapshot.Current != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🎵 Now Playing",
			Value: fmt.Sprintf("%s • %s", trackLink(snapshot.Current), snapshot.Current.FormattedDuration()),
		})
	}

	if upcoming := snapshot.Upcoming; len(upcoming) > 0 {
		var sb strings.Builder
		for i, track := range upcoming[:min(len(upcoming), maxQueueLines)] {
			fmt.Fprintf(&sb, "**%d.** %s • %s\n", i+1, trackLink(&track), track.FormattedDuration())
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Up Next (%d tracks)", len(upcoming)),
			Value: strings.TrimSuffix(sb.String(), "\n"),
		})
		if len(upcoming) > maxQueueLines {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("...and %d more", len(upcoming)-maxQueueLines),
			}
		}
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "🔁 Loop", Value: loopModeLabel(snapshot.LoopMode), Inline: true},
		&discordgo.MessageEmbedField{Name: "🔊 Volume", Value: fmt.Sprintf("%d%%", snapshot.Volume), Inline: true},
	)

	return Message{Embeds: []*discordgo.MessageEmbed{embed}}
}

// Help lists the text commands.
func (r *Renderer) Help() Message {
	p := r.prefix
	entries := []struct{ usage, description string }{
		{"play <song/URL>", "Play a song or add to queue"},
		{"play <1-5>", fmt.Sprintf("Play a result from %ssearch", p)},
		{"search <query>", "Search YouTube for songs"},
		{"skip", "Skip the current song"},
		{"previous", "Play the previous song"},
		{"pause", "Pause/resume playback"},
		{"stop", "Stop and clear queue"},
		{"queue", "Show the current queue"},
		{"nowplaying", "Show current song"},
		{"loop", "Cycle loop modes (off/track/queue)"},
		{"shuffle", "Shuffle the queue"},
		{"volume <0-100>", "Set volume"},
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s%s`", p, e.usage),
			Value:  e.description,
			Inline: true,
		})
	}

	return Message{Embeds: []*discordgo.MessageEmbed{{
		Title:       "🎵 Music Bot Commands",
		Description: fmt.Sprintf("Prefix: `%s`", p),
		Color:       colorInfo,
		Fields:      fields,
	}}}
}

// Error renders a failed command.
func (r *Renderer) Error(err error) Message {
	return simple(colorError, "❌ "+r.ErrorText(err))
}

// ErrorText maps a use case error to the text shown to the user.
func (r *Renderer) ErrorText(err error) string {
	var extraction *ports.ExtractionError

	switch {
	case errors.Is(err, usecases.ErrNotJoinable):
		return "You need to be in a voice channel I can join and speak in!"
	case errors.Is(err, usecases.ErrResolutionFailed) && errors.As(err, &extraction):
		return "Could not play that: " + domain.ShortErrorMessage(extraction.Message)
	case errors.Is(err, usecases.ErrResolutionFailed):
		return "Could not find anything to play."
	case errors.Is(err, usecases.ErrEmptyQueue):
		return "Nothing is playing!"
	case errors.Is(err, usecases.ErrNoHistory):
		return "No previous song available."
	case errors.Is(err, usecases.ErrNoRecentSearch):
		return fmt.Sprintf("No recent search found. Use `%ssearch <query>` first.", r.prefix)
	case errors.Is(err, usecases.ErrIndexOutOfRange):
		return "That result is not in your last search."
	case errors.Is(err, usecases.ErrNoResults):
		return "No results found."
	case errors.Is(err, usecases.ErrSearchFailed):
		return "Search failed. Please try again."
	case errors.Is(err, usecases.ErrInvalidArgument):
		detail, _ := strings.CutPrefix(err.Error(), usecases.ErrInvalidArgument.Error()+": ")
		return "Invalid argument: " + domain.ShortErrorMessage(detail)
	default:
		return "An error occurred: " + domain.ShortErrorMessage(err.Error())
	}
}

func simple(color int, description string) Message {
	return Message{Embeds: []*discordgo.MessageEmbed{{
		Description: description,
		Color:       color,
	}}}
}

func trackLink(track *domain.Track) string {
	if track == nil {
		return "Unknown"
	}
	if track.URL == "" {
		return track.Title
	}
	return fmt.Sprintf("[%s](%s)", track.Title, track.URL)
}

func loopModeLabel(mode domain.LoopMode) string {
	switch mode {
	case domain.LoopModeTrack:
		return "Track 🔂"
	case domain.LoopModeQueue:
		return "Queue 🔁"
	default:
		return "Off"
	}
}
