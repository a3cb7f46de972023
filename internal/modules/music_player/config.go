package music_player

import (
	"errors"
	"fmt"
	"time"

	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

// Resolver backends.
const (
	ResolverYtdlp    = "ytdlp"
	ResolverLavalink = "lavalink"
)

// Search backends.
const (
	SearchYtdlp    = "ytdlp"
	SearchYTSearch = "ytsearch"
	SearchYTMusic  = "ytmusic"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	ResolverBackend    string        `env:"RESOLVER_BACKEND" envDefault:"ytdlp"`
	SearchBackend      string        `env:"SEARCH_BACKEND" envDefault:"ytdlp"`
	YtdlpExtractorArgs string        `env:"YTDLP_EXTRACTOR_ARGS" envDefault:"youtube:player_client=android,mweb,web"`
	ResolveTimeout     time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"30s"`

	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`
	DefaultVolume int    `env:"DEFAULT_VOLUME" envDefault:"50"`

	NotificationRate  float64 `env:"NOTIFICATION_RATE" envDefault:"1"`
	NotificationBurst int     `env:"NOTIFICATION_BURST" envDefault:"5"`

	// StatusAddr is the listen address of the status API; empty disables it.
	StatusAddr string `env:"STATUS_ADDR"`
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.ResolverBackend {
	case ResolverYtdlp, ResolverLavalink:
	default:
		return fmt.Errorf("unknown RESOLVER_BACKEND %q", c.ResolverBackend)
	}

	switch c.SearchBackend {
	case SearchYtdlp, SearchYTSearch, SearchYTMusic:
	default:
		return fmt.Errorf("unknown SEARCH_BACKEND %q", c.SearchBackend)
	}

	if c.DefaultVolume < domain.MinVolume || c.DefaultVolume > domain.MaxVolume {
		return fmt.Errorf("DEFAULT_VOLUME must be between %d and %d, got %d",
			domain.MinVolume, domain.MaxVolume, c.DefaultVolume)
	}
	if c.CommandPrefix == "" {
		return errors.New("COMMAND_PREFIX must not be empty")
	}
	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("RESOLVE_TIMEOUT must be positive, got %s", c.ResolveTimeout)
	}
	if c.NotificationRate <= 0 || c.NotificationBurst < 1 {
		return errors.New("NOTIFICATION_RATE must be positive and NOTIFICATION_BURST at least 1")
	}
	return nil
}
