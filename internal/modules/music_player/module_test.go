package music_player

import (
	"strings"
	"testing"
	"time"

	"github.com/sglre6355/queuebot/internal/bot"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LAVALINK_ADDRESS", "localhost:2333")
	t.Setenv("LAVALINK_PASSWORD", "youshallnotpass")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	m := &MusicPlayerModule{}

	if err := m.LoadConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := m.config
	if cfg.ResolverBackend != ResolverYtdlp || cfg.SearchBackend != SearchYtdlp {
		t.Errorf("unexpected backends %q / %q", cfg.ResolverBackend, cfg.SearchBackend)
	}
	if cfg.DefaultVolume != 50 {
		t.Errorf("expected default volume 50, got %d", cfg.DefaultVolume)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("expected prefix !, got %q", cfg.CommandPrefix)
	}
	if cfg.ResolveTimeout != 30*time.Second {
		t.Errorf("expected 30s resolve timeout, got %s", cfg.ResolveTimeout)
	}
	if cfg.YtdlpExtractorArgs != "youtube:player_client=android,mweb,web" {
		t.Errorf("unexpected extractor args %q", cfg.YtdlpExtractorArgs)
	}
	if cfg.NotificationRate != 1 || cfg.NotificationBurst != 5 {
		t.Errorf("unexpected notification limits %v / %d", cfg.NotificationRate, cfg.NotificationBurst)
	}
	if cfg.StatusAddr != "" || cfg.LavalinkSecure {
		t.Error("expected status API and TLS to be off by default")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing lavalink address",
			env:     map[string]string{"LAVALINK_ADDRESS": ""},
			wantErr: "LAVALINK_ADDRESS",
		},
		{
			name:    "unknown resolver",
			env:     map[string]string{"RESOLVER_BACKEND": "spotify"},
			wantErr: "RESOLVER_BACKEND",
		},
		{
			name:    "unknown search backend",
			env:     map[string]string{"SEARCH_BACKEND": "bing"},
			wantErr: "SEARCH_BACKEND",
		},
		{
			name:    "volume out of range",
			env:     map[string]string{"DEFAULT_VOLUME": "150"},
			wantErr: "DEFAULT_VOLUME",
		},
		{
			name:    "invalid timeout",
			env:     map[string]string{"RESOLVE_TIMEOUT": "soon"},
			wantErr: "soon",
		},
		{
			name:    "zero burst",
			env:     map[string]string{"NOTIFICATION_BURST": "0"},
			wantErr: "NOTIFICATION_BURST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := (&MusicPlayerModule{}).LoadConfig()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RESOLVER_BACKEND", "lavalink")
	t.Setenv("SEARCH_BACKEND", "ytmusic")
	t.Setenv("DEFAULT_VOLUME", "80")
	t.Setenv("STATUS_ADDR", ":8080")

	m := &MusicPlayerModule{}
	if err := m.LoadConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.config.ResolverBackend != ResolverLavalink || m.config.SearchBackend != SearchYTMusic {
		t.Errorf("unexpected backends %+v", m.config)
	}
	if m.config.DefaultVolume != 80 || m.config.StatusAddr != ":8080" {
		t.Errorf("unexpected overrides %+v", m.config)
	}
}

func TestMusicPlayerModule_HandlersCoverCommands(t *testing.T) {
	m := &MusicPlayerModule{}

	handlers := m.CommandHandlers()
	for _, cmd := range m.Commands() {
		if _, ok := handlers[cmd.Name]; !ok {
			t.Errorf("command %q has no handler", cmd.Name)
		}
	}

	if _, ok := m.ComponentHandlers()["music"]; !ok {
		t.Error("expected control button handler")
	}
}

func TestMusicPlayerModule_InitRequiresSession(t *testing.T) {
	m := &MusicPlayerModule{}

	if err := m.Init(bot.ModuleDependencies{}); err == nil {
		t.Error("expected error without a session")
	}
}

func TestMusicPlayerModule_UninitializedHandlers(t *testing.T) {
	m := &MusicPlayerModule{}

	if err := m.handleCommand(nil, nil, &bot.MockResponder{}); err == nil {
		t.Error("expected error before Init")
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("expected shutdown of an uninitialized module to succeed, got %v", err)
	}
}
