package booking

import (
	"io"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/booking/model/dto"
	"littlelemon/internal/domains/booking/service"
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
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/booking/tables", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/{id}/", handler.GetBooking)
		routerGroup.Put("/{id}/", handler.UpdateBooking)
		routerGroup.Patch("/{id}/", handler.PatchBooking)
		routerGroup.Delete("/{id}/", handler.DeleteBooking)
	})
}

// CreateBooking reserves a table.
// @Summary Create a booking
// @Description Create a booking. number_of_guests defaults to 6 when omitted; booking_date without an offset is read in the application timezone.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BookingRequest true "Booking"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/ [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.BookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid booking")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Booking created by user " + user)

	response.WithResource(writer, http.StatusCreated, booking)
}

// GetBookings lists bookings ordered by date.
// @Summary List bookings
// @Description List bookings ordered by booking_date. The X-Total-Count header carries the unpaginated total.
// @Tags Booking
// @Produce json
// @Param date query string false "Only bookings on this day (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size, no pagination when absent"
// @Success 200 {array} dto.BookingResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/ [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request, false); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	filter := dto.BookingFilter{}
	if err := filter.FromRequest(request); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithList(writer, bookings.Items, bookings.Total)
}

// GetBooking retrieves a booking by its ID.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/{id}/ [get]
// @Security BearerAuth
func (handler *Handler) GetBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooking")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		if !failure.IsNotFound(err) {
			scope.TraceError(err)
			log.Error().Err(err).Int64("id", id).Msg("failed to get booking")
		}

		response.WithError(writer, err)

		return
	}

	response.WithResource(writer, http.StatusOK, booking)
}

// UpdateBooking replaces a booking. Name and booking_date are required.
// @Summary Update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.BookingRequest true "Booking"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/{id}/ [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, validator.Validate[dto.BookingRequest])
}

// PatchBooking updates the fields present in the body.
// @Summary Partially update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.BookingRequest true "Fields to change"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.ValidationError
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/{id}/ [patch]
// @Security BearerAuth
func (handler *Handler) PatchBooking(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, validator.ValidatePartial[dto.BookingRequest])
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, bind func(io.Reader, *dto.BookingRequest) error) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.BookingRequest{}
	if err = bind(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid booking")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Booking updated by user " + user)

	response.WithResource(writer, http.StatusOK, booking)
}

// DeleteBooking cancels a booking.
// @Summary Delete a booking
// @Tags Booking
// @Param id path int true "Booking ID"
// @Success 204
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/booking/tables/{id}/ [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		response.WithError(writer, err)

		return
	}

	if err = handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	scope.AddEvent("Booking deleted by user " + user)

	response.WithNoContent(writer)
}
