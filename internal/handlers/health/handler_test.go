package health_test

import (
	"context"
	"errors"
	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/handlers/health"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func up(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func TestHandler_Health(t *testing.T) {
	tests := []struct {
		name   string
		checks []health.Check
		code   int
		body   string
	}{
		{
			name:   "all up",
			checks: []health.Check{{Name: "postgres", Ping: up}, {Name: "redis", Ping: up}},
			code:   http.StatusOK,
			body:   `{"data": {"status": "ok", "checks": {"postgres": "ok", "redis": "ok"}}}`,
		},
		{
			name:   "redis down",
			checks: []health.Check{{Name: "postgres", Ping: up}, {Name: "redis", Ping: down}},
			code:   http.StatusServiceUnavailable,
			body:   `{"data": {"status": "down", "checks": {"postgres": "ok", "redis": "down"}}}`,
		},
		{
			name: "no checks",
			code: http.StatusOK,
			body: `{"data": {"status": "ok", "checks": {}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := health.NewWithChecks(mocks.NewOtel(), tt.checks...)
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
