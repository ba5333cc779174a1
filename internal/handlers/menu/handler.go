package menu

import (
	"io"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/menu/model/dto"
	"littlelemon/internal/domains/menu/service"
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

type Handler struct {
	service service.Menu
	otel    otel.Otel
}

func New(service service.Menu, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/menu", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetMenuItems)
		routerGroup.Post("/", handler.CreateMenuItem)
		routerGroup.Get("/{id}/", handler.GetMenuItem)
		routerGroup.Put("/{id}/", handler.UpdateMenuItem)
		routerGroup.Patch("/{id}/", handler.PatchMenuItem)
		routerGroup.Delete("/{id}/", handler.DeleteMenuItem)
	})
}

// CreateMenuItem handles the creation of a new menu item.
// @Summary Create a menu item
// @Description Create a menu item. Inventory defaults to 5 when omitted.
// @Tags Menu
// @Accept json
// @Produce json
// @Param request body dto.MenuItemRequest true "Menu item"
// @Success 201 {object} dto.MenuItemResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/ [post]
// @Security BearerAuth
func (handler *Handler) CreateMenuItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMenuItem")
	defer scope.End()

	req := dto.MenuItemRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid menu item")

		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create menu item")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Menu item created by user " + user)

	response.WithResource(writer, http.StatusCreated, item)
}

// GetMenuItems lists menu items ordered by title.
// @Summary List menu items
// @Description List menu items ordered by title. The X-Total-Count header carries the unpaginated total.
// @Tags Menu
// @Produce json
// @Param search query string false "Case-insensitive title match"
// @Param available query boolean false "Only items with (true) or without (false) inventory"
// @Param page query int false "Page number"
// @Param limit query int false "Page size, no pagination when absent"
// @Success 200 {array} dto.MenuItemResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/ [get]
// @Security BearerAuth
func (handler *Handler) GetMenuItems(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenuItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request, false); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	filter := dto.MenuFilter{}
	if err := filter.FromRequest(request); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	items, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get menu items")

		response.WithError(writer, err)

		return
	}

	response.WithList(writer, items.Items, items.Total)
}

// GetMenuItem retrieves a menu item by its ID.
// @Summary Get a menu item
// @Tags Menu
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} dto.MenuItemResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/{id}/ [get]
// @Security BearerAuth
func (handler *Handler) GetMenuItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenuItem")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		if !failure.IsNotFound(err) {
			scope.TraceError(err)
			log.Error().Err(err).Int64("id", id).Msg("failed to get menu item")
		}

		response.WithError(writer, err)

		return
	}

	response.WithResource(writer, http.StatusOK, item)
}

// UpdateMenuItem replaces a menu item. Title and price are required.
// @Summary Update a menu item
// @Tags Menu
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param request body dto.MenuItemRequest true "Menu item"
// @Success 200 {object} dto.MenuItemResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/{id}/ [put]
// @Security BearerAuth
func (handler *Handler) UpdateMenuItem(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, validator.Validate[dto.MenuItemRequest])
}

// PatchMenuItem updates the fields present in the body.
// @Summary Partially update a menu item
// @Tags Menu
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param request body dto.MenuItemRequest true "Fields to change"
// @Success 200 {object} dto.MenuItemResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/{id}/ [patch]
// @Security BearerAuth
func (handler *Handler) PatchMenuItem(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, validator.ValidatePartial[dto.MenuItemRequest])
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, bind func(io.Reader, *dto.MenuItemRequest) error) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMenuItem")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.MenuItemRequest{}
	if err = bind(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid menu item")

		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update menu item")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Menu item updated by user " + user)

	response.WithResource(writer, http.StatusOK, item)
}

// DeleteMenuItem deletes a menu item by its ID.
// @Summary Delete a menu item
// @Tags Menu
// @Param id path int true "Menu item ID"
// @Success 204
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/menu/{id}/ [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMenuItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMenuItem")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	if err = handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete menu item")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Menu item deleted by user " + user)

	response.WithNoContent(writer)
}
