package main

import (
	"context"
	"littlelemon/config"
	"littlelemon/di"
	"littlelemon/shared/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.UseJSONOutput(cfg, os.Stdout)
	logger.SetLogLevel(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("Kafka is disabled, nothing to consume")
	}

	worker := di.InitializeWorker()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("topic", cfg.Kafka.Topics.Bookings).
		Str("group", cfg.Kafka.ConsumerGroup).
		Msg("Starting booking notification worker.")

	err := worker.Kafka.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topics.Bookings, worker.Notifier.Handle)
	if err != nil {
		log.Error().Err(err).Msg("Booking consumer stopped")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := worker.Otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
