//go:build wireinject
// +build wireinject

package di

import (
	"littlelemon/config"
	"littlelemon/infras/jwt"
	"littlelemon/infras/kafka"
	"littlelemon/infras/otel"
	"littlelemon/infras/postgres"
	"littlelemon/infras/redis"
	"littlelemon/permissions"
	"littlelemon/shared/cache"
	"littlelemon/transport/http"
	"littlelemon/transport/http/middleware"
	"littlelemon/transport/http/router"

	authService "littlelemon/internal/domains/auth/service"
	"littlelemon/internal/domains/booking/event"
	bookingRepository "littlelemon/internal/domains/booking/repository"
	bookingService "littlelemon/internal/domains/booking/service"
	menuRepository "littlelemon/internal/domains/menu/repository"
	menuService "littlelemon/internal/domains/menu/service"
	userRepository "littlelemon/internal/domains/user/repository"
	userService "littlelemon/internal/domains/user/service"

	authHandler "littlelemon/internal/handlers/auth"
	bookingHandler "littlelemon/internal/handlers/booking"
	healthHandler "littlelemon/internal/handlers/health"
	homeHandler "littlelemon/internal/handlers/home"
	menuHandler "littlelemon/internal/handlers/menu"
	adminHandler "littlelemon/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var menuDomain = wire.NewSet(
	menuRepository.New,
	menuService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	event.NewPublisher,
	bookingService.New,
)

var userDomain = wire.NewSet(
	userRepository.NewUser,
	userRepository.NewGroup,
	userRepository.NewMembership,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	menuDomain,
	bookingDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	homeHandler.New,
	healthHandler.New,
	menuHandler.New,
	bookingHandler.New,
	authHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}

func InitializeWorker() *Worker {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		event.NewNotifier,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}
}
