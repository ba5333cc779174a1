package router

import (
	_ "littlelemon/docs" //nolint:revive
	"littlelemon/internal/handlers/auth"
	"littlelemon/internal/handlers/booking"
	"littlelemon/internal/handlers/health"
	"littlelemon/internal/handlers/home"
	"littlelemon/internal/handlers/menu"
	"littlelemon/internal/handlers/user"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Home    home.Handler
	Health  health.Handler
	Menu    menu.Handler
	Booking booking.Handler
	Auth    auth.Handler
	Admin   user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Home.Router(routerGroup)
		r.DomainHandlers.Menu.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Auth.TokenRouter(routerGroup)
	})

	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Admin.Router(router)
	r.DomainHandlers.Health.Router(router)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
