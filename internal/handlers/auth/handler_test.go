package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/domains/auth/model/dto"
	authMocks "littlelemon/internal/domains/auth/service/mocks"
	userDto "littlelemon/internal/domains/user/model/dto"
	userMocks "littlelemon/internal/domains/user/service/mocks"
	"littlelemon/internal/handlers/auth"
	"littlelemon/shared/constant"
	"littlelemon/shared/failure"
)

type fixture struct {
	router *chi.Mux
	auth   *authMocks.MockAuth
	users  *userMocks.MockUser
}

// newFixture mounts the handler behind a stand-in for the auth middleware that
// authenticates user 7 when the request carries any Authorization header, and
// admin user 1 when that header is "Token admin".
func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		router: chi.NewRouter(),
		auth:   authMocks.NewMockAuth(ctrl),
		users:  userMocks.NewMockUser(ctrl),
	}

	handler := auth.New(f.auth, f.users, mocks.NewOtel())

	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Header.Get(constant.RequestHeaderAuthorization) {
			case "":
			case "Token admin":
				ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, int64(1))
				ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
				r = r.WithContext(ctx)
			default:
				ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, int64(7))
				ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
				ctx = context.WithValue(ctx, constant.ContextKeyTokenID, "jti-7")
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	})
	handler.Router(f.router)
	f.router.Route("/api", handler.TokenRouter)

	return f
}

func (f fixture) serve(method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authenticated {
		req.Header.Set(constant.RequestHeaderAuthorization, "Token abc")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f fixture) serveAdmin(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(constant.RequestHeaderAuthorization, "Token admin")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(userDto.UserResponse{URL: "/auth/users/7/", ID: 7, Username: "mario", Groups: []string{}}, nil)

		rec := f.serve(http.MethodPost, "/auth/users/", `{"username": "mario", "password": "lemon-tree-42"}`, false)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"url": "/auth/users/7/", "id": 7, "username": "mario", "email": "", "groups": []}`, rec.Body.String())
	})

	t.Run("invalid body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodPost, "/auth/users/", `{"username": "mario"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"password"`)
	})
}

func TestHandler_ObtainToken(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().
			ObtainToken(gomock.Any(), dto.LoginRequest{Username: "mario", Password: "lemon-tree-42"}).
			Return(dto.TokenResponse{Token: "opaque"}, nil)

		rec := f.serve(http.MethodPost, "/api/api-token-auth/", `{"username": "mario", "password": "lemon-tree-42"}`, false)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"token": "opaque"}`, rec.Body.String())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().
			ObtainToken(gomock.Any(), gomock.Any()).
			Return(dto.TokenResponse{}, failure.FieldError(failure.NonFieldErrors, "Unable to log in with provided credentials."))

		rec := f.serve(http.MethodPost, "/api/api-token-auth/", `{"username": "mario", "password": "nope"}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"non_field_errors": ["Unable to log in with provided credentials."]}`, rec.Body.String())
	})
}

func TestHandler_Login(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(dto.LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, nil)

	rec := f.serve(http.MethodPost, "/auth/token/login/", `{"username": "mario", "password": "lemon-tree-42"}`, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token": "a", "refresh_token": "r", "token_type": "Bearer", "expires_in": 900}`, rec.Body.String())
}

func TestHandler_Me(t *testing.T) {
	t.Run("current user", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), int64(7)).Return(userDto.UserResponse{ID: 7, Username: "mario", Groups: []string{"Manager"}}, nil)

		rec := f.serve(http.MethodGet, "/auth/users/me/", "", true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"groups":["Manager"]`)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodGet, "/auth/users/me/", "", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_GetUser(t *testing.T) {
	t.Run("own account", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), int64(7)).Return(userDto.UserResponse{ID: 7, Username: "mario"}, nil)

		rec := f.serve(http.MethodGet, "/auth/users/7/", "", true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"mario"`)
	})

	t.Run("someone else is hidden", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodGet, "/auth/users/8/", "", true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin sees any account", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), int64(8)).Return(userDto.UserResponse{ID: 8, Username: "luigi"}, nil)

		rec := f.serveAdmin(http.MethodGet, "/auth/users/8/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"luigi"`)
	})

	t.Run("admin asks for a missing account", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), int64(99)).Return(userDto.UserResponse{}, failure.NotFound("user not found"))

		rec := f.serveAdmin(http.MethodGet, "/auth/users/99/")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(http.MethodGet, "/auth/users/abc/", "", true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("me keeps its own route", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), int64(7)).Return(userDto.UserResponse{ID: 7, Username: "mario"}, nil)

		rec := f.serve(http.MethodGet, "/auth/users/me/", "", true)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().
		Logout(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			assert.Equal(t, "jti-7", ctx.Value(constant.ContextKeyTokenID))

			return nil
		})

	rec := f.serve(http.MethodPost, "/auth/token/logout/", "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_RefreshToken(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().RefreshToken(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("invalid refresh token"))

	rec := f.serve(http.MethodPost, "/auth/token/refresh/", `{"refresh_token": "stale"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_ChangePassword(t *testing.T) {
	t.Run("changed", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(nil)

		rec := f.serve(http.MethodPost, "/auth/users/set_password/", `{"current_password": "lemon-tree-42", "new_password": "olive-oil-2024"}`, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)

		f.auth.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		rec := f.serve(http.MethodPost, "/auth/users/set_password/", `{"current_password": "lemon-tree-42", "new_password": "olive-oil-2024"}`, true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
