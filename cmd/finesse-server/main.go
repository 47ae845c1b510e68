// Command finesse-server runs the finesse REST API server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/finesse/internal/history"
	"github.com/yourusername/finesse/pkg/api"
	"github.com/yourusername/finesse/pkg/engine"
)

const version = "0.1.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if lvl, err := zerolog.ParseLevel(os.Getenv("FINESSE_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			fmt.Printf("finesse-server v%s\n", version)
			os.Exit(0)
		}
	}

	cfg, err := api.ConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	eng, err := engine.NewEngine(engine.EngineOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create engine")
	}
	log.Info().Msg("engine ready, spawn table precomputed")

	var store *history.Store
	if cfg.JWTSecret != "" {
		store, err = history.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open history store")
		}
		defer store.Close()
		log.Info().Str("path", cfg.DBPath).Msg("history store ready")
	} else {
		log.Warn().Msg("FINESSE_JWT_SECRET not set, auth and history routes disabled")
	}

	server := api.NewServer(eng, store, cfg, version)
	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
