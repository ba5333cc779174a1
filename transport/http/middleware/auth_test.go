package middleware_test

import (
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/jwt"
	jwtMocks "littlelemon/infras/jwt/mocks"
	"littlelemon/infras/otel/mocks"
	"littlelemon/permissions"
	"littlelemon/shared/constant"
	"littlelemon/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func whoAmI(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(constant.ContextKeyUserID).(int64)
	username, _ := r.Context().Value(constant.ContextKeyUsername).(string)

	_, _ = fmt.Fprintf(w, "%d:%s", userID, username)
}

func newRouter(t *testing.T, service jwt.JWT, cfg *config.Config) chi.Router {
	t.Helper()

	data := permissions.Get()
	require.NotNil(t, data)

	mw := middleware.NewAuthRoleMiddleware(service, mocks.NewOtel(), data, cfg)

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)

	router.Route("/api", func(r chi.Router) {
		r.Get("/", whoAmI)
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", whoAmI)
			r.Get("/{id}/", whoAmI)
		})
	})
	router.Route("/admin", func(r chi.Router) {
		r.Get("/users/", whoAmI)
	})

	return router
}

func claims(role string) *jwt.Claims {
	return &jwt.Claims{
		UserID:   7,
		Username: "mario",
		Role:     role,
		Type:     jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "jti-7",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func serve(router http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth(t *testing.T) {
	t.Run("public route needs no token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

		rec := serve(router, "/api/", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0:", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

		rec := serve(router, "/api/menu/", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error": "authentication credentials were not provided or are invalid"}`, rec.Body.String())
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

		rec := serve(router, "/api/menu/", map[string]string{"Authorization": "Basic abc"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := jwtMocks.NewMockJWT(ctrl)
		service.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(nil, jwt.ErrRevokedToken)

		rec := serve(newRouter(t, service, &config.Config{}), "/api/menu/", map[string]string{"Authorization": "Token abc"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("claims without user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := jwtMocks.NewMockJWT(ctrl)
		service.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(&jwt.Claims{}, nil)

		rec := serve(newRouter(t, service, &config.Config{}), "/api/menu/", map[string]string{"Authorization": "Bearer abc"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := jwtMocks.NewMockJWT(ctrl)
		service.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(claims(constant.RoleUser), nil)

		rec := serve(newRouter(t, service, &config.Config{}), "/api/menu/3/", map[string]string{"Authorization": "Token abc"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7:mario", rec.Body.String())
	})

	t.Run("unknown route is left to the router", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

		rec := serve(router, "/api/nothing-here/", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "admin allowed", role: constant.RoleAdmin, want: http.StatusOK},
		{name: "user forbidden", role: constant.RoleUser, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := jwtMocks.NewMockJWT(ctrl)
			service.EXPECT().ValidateToken(gomock.Any(), "abc", jwt.AccessToken).Return(claims(tt.role), nil)

			rec := serve(newRouter(t, service, &config.Config{}), "/admin/users/", map[string]string{"Authorization": "Bearer abc"})

			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("no permissions loaded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mw := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), mocks.NewOtel(), nil, &config.Config{})

		rec := httptest.NewRecorder()
		mw.RBAC(http.HandlerFunc(whoAmI)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users/", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "s3cret"

	t.Run("valid key bypasses token and role checks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), cfg)

		rec := serve(router, "/admin/users/", map[string]string{"X-API-Key": "s3cret"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0:system", rec.Body.String())
	})

	t.Run("wrong key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), cfg)

		rec := serve(router, "/api/menu/", map[string]string{"X-API-Key": "guess"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no key configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router := newRouter(t, jwtMocks.NewMockJWT(ctrl), &config.Config{})

		rec := serve(router, "/api/menu/", map[string]string{"X-API-Key": "anything"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
