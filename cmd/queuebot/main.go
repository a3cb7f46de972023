package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sglre6355/queuebot/internal/bot"
	_ "github.com/sglre6355/queuebot/internal/modules/music_player"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/queuebot
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:           "queuebot",
		Short:         "Discord music queue bot backed by Lavalink",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, envFiles)
		},
	}

	cmd.Flags().StringArrayVar(&envFiles, "env-file", nil,
		"dotenv file to load before reading the environment (repeatable, default .env)")

	return cmd
}

func run(ctx context.Context, envFiles []string) error {
	if err := bot.LoadEnvFiles(envFiles...); err != nil {
		return err
	}

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer := bot.NewLogger(cfg)
	defer closer.Close()
	slog.SetDefault(logger)

	slog.Info("starting queuebot", "version", version)

	// Create and configure bot
	b := bot.NewBot(cfg)
	b.LoadModules()

	// Start bot
	if err := b.Start(); err != nil {
		_ = b.Stop()
		return fmt.Errorf("failed to start bot: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
	return nil
}
