package health

import (
	"context"
	"littlelemon/infras/otel"
	"littlelemon/infras/postgres"
	"littlelemon/shared/constant"
	"littlelemon/transport/http/response"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	checkTimeout = 2 * time.Second
	statusOK     = "ok"
	statusDown   = "down"
)

// Check is one dependency probed by the health endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Handler struct {
	checks []Check
	otel   otel.Otel
}

// New probes the write pool and the primary Redis.
func New(db *postgres.Connection, client *goRedis.Client, otel otel.Otel) Handler {
	return NewWithChecks(otel,
		Check{Name: "postgres", Ping: db.Write.PingContext},
		Check{Name: "redis", Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() }},
	)
}

func NewWithChecks(otel otel.Otel, checks ...Check) Handler {
	return Handler{
		checks: checks,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the service and its dependencies are reachable.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Data[Status]
// @Router /health [get]
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := Status{Status: statusOK, Checks: make(map[string]string, len(handler.checks))}

	for _, check := range handler.checks {
		if err := check.Ping(ctx); err != nil {
			log.Error().Err(err).Str("check", check.Name).Msg("health check failed")
			scope.TraceError(err)

			status.Status = statusDown
			status.Checks[check.Name] = statusDown

			continue
		}

		status.Checks[check.Name] = statusOK
	}

	code := http.StatusOK
	if status.Status != statusOK {
		code = http.StatusServiceUnavailable
	}

	response.WithJSON(writer, code, status)
}
