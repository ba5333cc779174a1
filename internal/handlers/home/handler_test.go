package home_test

import (
	"littlelemon/config"
	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/handlers/home"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Index(t *testing.T) {
	tests := []struct {
		name    string
		appName string
		want    string
	}{
		{name: "configured name", appName: "Little Lemon Chicago", want: "<title>Little Lemon Chicago</title>"},
		{name: "default name", want: "<title>Little Lemon</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.App.Name = tt.appName

			handler := home.New(cfg, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Contains(t, rec.Body.String(), `href="/api/menu/"`)
		})
	}

	t.Run("post not allowed", func(t *testing.T) {
		handler := home.New(&config.Config{}, mocks.NewOtel())
		router := chi.NewRouter()
		handler.Router(router)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
