package di

import (
	"littlelemon/config"
	"littlelemon/infras/kafka"
	"littlelemon/infras/otel"
	"littlelemon/infras/postgres"
	authService "littlelemon/internal/domains/auth/service"
	"littlelemon/internal/domains/booking/event"
	"littlelemon/transport/http"
)

// Application is everything the API binary needs after wiring.
type Application struct {
	HTTP *http.HTTP
	Auth authService.Auth
	Otel otel.Otel
	DB   *postgres.Connection
}

// Worker consumes booking events.
type Worker struct {
	Config   *config.Config
	Kafka    kafka.Client
	Notifier event.Notifier
	Otel     otel.Otel
}
