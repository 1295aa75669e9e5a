package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stellaris-techtree/internal/config"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "stellaris-techtree",
		Short: "Stellaris technology tree extractor",
		Long: `Reads the base game and a set of mods, resolves their localisation and
scripted variables, and writes every technology together with its
prerequisite graph.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(loadOrderCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the log level.
func loadConfig() *config.Config {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func loadOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-order <mods_registry.json> <game_data.json>",
		Short: "Print the mod directories enabled in the Paradox launcher, in load order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfig()
			return runLoadOrder(cmd, args[0], args[1])
		},
	}
}

func checkWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", n)
	}
	return nil
}
