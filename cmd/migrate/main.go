// migrate applies or rolls back the embedded schema migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"shoes-store/internal/config"
	"shoes-store/internal/database"
)

func main() {
	direction := flag.String("direction", database.DirectionUp, "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	if cfg.Database.URL == config.FallbackDatabaseURL {
		logger.Warn().Msg("DATABASE_URL is not set, migrating the local development database")
	}

	if err := database.Migrate(cfg.Database.URL, *direction); err != nil {
		logger.Error().Err(err).Str("direction", *direction).Msg("migration failed")
		os.Exit(1)
	}

	logger.Info().Str("direction", *direction).Msg("migrations complete")
}
