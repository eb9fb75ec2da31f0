// Command api runs the activity dashboard API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/config"
	"github.com/tracefit/activity-metrics-api/internal/database"
	"github.com/tracefit/activity-metrics-api/internal/server"
	"github.com/tracefit/activity-metrics-api/internal/utils"
	"github.com/tracefit/activity-metrics-api/migrations"
	"github.com/tracefit/activity-metrics-api/scripts"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	runMigrations := flag.Bool("migrate", true, "apply pending database migrations on startup")
	runSeed := flag.Bool("seed", false, "load sample activities and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	// A .env file, when present, feeds the PG* credential variables.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded environment from .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.App.Version == "" || cfg.App.Version == "1.0.0" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)
	utils.InitValidator()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx := context.Background()

	if *runMigrations {
		if err := migrations.Run(ctx, db); err != nil {
			db.Close()
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	if *runSeed {
		if err := scripts.Seed(ctx, db); err != nil {
			db.Close()
			log.Fatal().Err(err).Msg("Failed to seed database")
		}
		db.Close()
		return
	}

	srv := server.NewServer(cfg, db)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
