package user

import (
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/user/model/dto"
	"littlelemon/internal/domains/user/service"
	"littlelemon/shared"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/validator"
	"littlelemon/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler serves the user administration endpoints. Access is restricted to the admin role by RBAC.
type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Get("/users/", handler.GetUsers)
		routerGroup.Get("/users/{id}/", handler.GetUser)
		routerGroup.Put("/users/{id}/groups/", handler.SetUserGroups)
		routerGroup.Get("/groups/", handler.GetGroups)
		routerGroup.Post("/groups/", handler.CreateGroup)
	})
}

// GetUsers lists users with their group names.
// @Summary List users
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param search query string false "Username contains"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /admin/users/ [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	queryParams := gDto.QueryParams{}

	if err := queryParams.FromRequest(r, true); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid query parameters")

		response.WithError(w, err)

		return
	}

	filter := dto.UserFilter{}
	filter.FromRequest(r)

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetUser retrieves a user by ID.
// @Summary Get a user
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /admin/users/{id}/ [get]
// @Security BearerAuth
func (handler *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUser")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		if !failure.IsNotFound(err) {
			scope.TraceError(err)
			log.Error().Err(err).Int64("id", id).Msg("failed to get user")
		}

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SetUserGroups replaces the group memberships of a user.
// @Summary Set user groups
// @Description Replace every group of the user with the named groups. Unknown names are rejected.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.SetGroupsRequest true "Group names"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /admin/users/{id}/groups/ [put]
// @Security BearerAuth
func (handler *Handler) SetUserGroups(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetUserGroups")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.SetGroupsRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid group assignment")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.SetGroups(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to set user groups")

		response.WithError(w, err)

		return
	}

	admin, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("User groups set by " + admin)

	response.WithJSON(w, http.StatusOK, res)
}

// GetGroups lists every group.
// @Summary List groups
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[[]dto.GroupResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /admin/groups/ [get]
// @Security BearerAuth
func (handler *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGroups")
	defer scope.End()

	res, err := handler.service.GetGroups(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get groups")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateGroup creates a group.
// @Summary Create a group
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.GroupRequest true "Group"
// @Success 201 {object} response.Data[dto.GroupResponse]
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /admin/groups/ [post]
// @Security BearerAuth
func (handler *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGroup")
	defer scope.End()

	req := dto.GroupRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid group")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateGroup(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create group")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Group created")

	response.WithJSON(w, http.StatusCreated, res)
}
