package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/sctoggle/internal/app"
	"github.com/dokzlo13/sctoggle/internal/config"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	resetState := flag.Bool("reset-state", false, "Clear stored button state on startup")
	history := flag.Int("history", 0, "Print the last N recorded selection changes and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logging
	setupLogging(cfg.Log.GetLevel(), cfg.Log.JSON, cfg.Log.Colors)

	log.Info().Str("config", configPath).Msg("Starting sctoggle")

	// Create application
	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}
	defer application.Close()

	if *history > 0 {
		printHistory(application, *history)
		return
	}

	// Handle reset state flag
	if *resetState {
		log.Info().Msg("Clearing stored button state (--reset-state)")
		if err := application.ClearState(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear button state")
		}
	}

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Run failed")
		application.Close()
		os.Exit(1)
	}
}

func printHistory(application *app.App, n int) {
	entries, err := application.History(n)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read selection history")
		return
	}
	for _, e := range entries {
		group := e.Group
		if group == "" {
			group = "-"
		}
		fmt.Printf("%s  %-8s %-16s %-12s selected=%t\n",
			e.Timestamp.Local().Format(time.DateTime), e.Source, e.ButtonID, group, e.Selected)
	}
}

func setupLogging(level zerolog.Level, useJSON bool, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}
	zerolog.SetGlobalLevel(level)
}
