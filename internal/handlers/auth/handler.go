package auth

import (
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/auth/model/dto"
	"littlelemon/internal/domains/auth/service"
	userService "littlelemon/internal/domains/user/service"
	"littlelemon/shared"
	"littlelemon/shared/constant"
	"littlelemon/shared/failure"
	"littlelemon/shared/validator"
	"littlelemon/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	users   userService.User
	otel    otel.Otel
}

func New(service service.Auth, users userService.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		users:   users,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(routerGroup chi.Router) {
		routerGroup.Post("/users/", handler.Register)
		routerGroup.Get("/users/me/", handler.Me)
		routerGroup.Get("/users/{id}/", handler.GetUser)
		routerGroup.Post("/users/set_password/", handler.ChangePassword)
		routerGroup.Post("/token/login/", handler.Login)
		routerGroup.Post("/token/logout/", handler.Logout)
		routerGroup.Post("/token/refresh/", handler.RefreshToken)
	})
}

// TokenRouter mounts the single token endpoint kept for clients of /api/api-token-auth/.
func (handler *Handler) TokenRouter(router chi.Router) {
	router.Post("/api-token-auth/", handler.ObtainToken)
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a user with a username, an optional email and a password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} userDto.UserResponse
// @Failure 400 {object} response.ValidationError
// @Failure 500 {object} response.Error
// @Router /auth/users/ [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid registration")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User registered")

	response.WithResource(w, http.StatusCreated, res)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} userDto.UserResponse
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/users/me/ [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok {
		response.WithUnauthenticated(w)

		return
	}

	res, err := handler.users.Get(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", userID).Msg("failed to get current user")

		response.WithError(w, err)

		return
	}

	response.WithResource(w, http.StatusOK, res)
}

// GetUser returns one account. Callers without the admin role only see their own.
// @Summary Get user
// @Tags Auth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} userDto.UserResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/users/{id}/ [get]
// @Security BearerAuth
func (handler *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUser")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(int64)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if id != userID && role != constant.RoleAdmin {
		response.WithError(w, failure.NotFound(constant.ResponseErrorNotFound))

		return
	}

	res, err := handler.users.Get(ctx, id)
	if err != nil {
		if !failure.IsNotFound(err) {
			scope.TraceError(err)
			log.Error().Err(err).Int64("id", id).Msg("failed to get user")
		}

		response.WithError(w, err)

		return
	}

	response.WithResource(w, http.StatusOK, res)
}

// ChangePassword handles a password change of the authenticated user
// @Summary Change password
// @Tags Auth
// @Accept json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 204
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/users/set_password/ [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	req := dto.ChangePasswordRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid password change")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ChangePassword(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change password")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Password changed")

	response.WithNoContent(w)
}

// Login handles user login
// @Summary Login a user
// @Description Exchange credentials for an access and refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} response.ValidationError
// @Failure 500 {object} response.Error
// @Router /auth/token/login/ [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid login request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("username", req.Username).Msg("failed to login user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User logged in")

	response.WithResource(w, http.StatusOK, res)
}

// ObtainToken handles the api-token-auth endpoint
// @Summary Obtain a token
// @Description Exchange credentials for a single bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} response.ValidationError
// @Failure 500 {object} response.Error
// @Router /api/api-token-auth/ [post]
func (handler *Handler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ObtainToken")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid token request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ObtainToken(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("username", req.Username).Msg("failed to obtain token")

		response.WithError(w, err)

		return
	}

	response.WithResource(w, http.StatusOK, res)
}

// Logout revokes the presented access token
// @Summary Logout
// @Tags Auth
// @Success 204
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/token/logout/ [post]
// @Security BearerAuth
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	if err := handler.service.Logout(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to logout user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User logged out")

	response.WithNoContent(w)
}

// RefreshToken handles token refresh
// @Summary Refresh user token
// @Description Trade a refresh token for a new pair. The used refresh token is revoked.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/token/refresh/ [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid refresh request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to refresh token")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Token refreshed")

	response.WithResource(w, http.StatusOK, res)
}
