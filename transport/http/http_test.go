package http

import (
	"littlelemon/config"
	jwtMocks "littlelemon/infras/jwt/mocks"
	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/handlers/health"
	"littlelemon/permissions"
	"littlelemon/transport/http/middleware"
	"littlelemon/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, cfg *config.Config) *HTTP {
	t.Helper()

	ctrl := gomock.NewController(t)

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, nil)
	auth := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), mocks.NewOtel(), permissions.Get(), cfg)

	handlers := router.DomainHandlers{
		Health: health.NewWithChecks(mocks.NewOtel()),
	}

	return New(cfg, router.New(handlers), app, auth)
}

func get(handler http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestHTTP_Handler(t *testing.T) {
	server := newServer(t, &config.Config{})

	assert.Equal(t, http.StatusOK, get(server, "/health", nil).Code)
	assert.Equal(t, ServerStateReady, server.State())

	assert.Equal(t, http.StatusUnauthorized, get(server, "/api/menu/", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(server, "/nowhere", nil).Code)
}

func TestHTTP_StateGuard(t *testing.T) {
	server := newServer(t, &config.Config{})
	handler := server.Handler()

	server.setState(ServerStateInGracePeriod)

	assert.Equal(t, http.StatusServiceUnavailable, get(handler, "/health", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(handler, "/nowhere", nil).Code)

	server.setState(ServerStateInCleanupPeriod)

	rec := get(handler, "/nowhere", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message": "SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}

func TestHTTP_CORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://littlelemon.example"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet}

	server := newServer(t, cfg)

	rec := get(server, "/health", map[string]string{"Origin": "https://littlelemon.example"})

	assert.Equal(t, "https://littlelemon.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
