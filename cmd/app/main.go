package main

import (
	"context"
	"littlelemon/config"
	"littlelemon/di"
	"littlelemon/helper"
	"littlelemon/shared/logger"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// @title Little Lemon API
// @version 1.0
// @description Menu, table booking and account API of the Little Lemon restaurant.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.UseJSONOutput(cfg, os.Stdout)
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app := di.InitializeService()

	if err := app.Auth.EnsureSuperuser(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to bootstrap superuser")
	}

	app.HTTP.Serve()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	if err := app.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connections")
	}
}
