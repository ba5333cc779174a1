package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/booking/event"
	"littlelemon/internal/domains/booking/model"
	"littlelemon/internal/domains/booking/model/dto"
	"littlelemon/internal/domains/booking/repository"
	"littlelemon/shared"
	"littlelemon/shared/cache"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking     = "booking:item"
	cacheGetAllBooking  = "booking:list"
	cacheBookingVersion = "booking:version"
)

type Booking interface {
	Create(ctx context.Context, req dto.BookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.BookingRequest, id int64) (dto.BookingResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo   repository.Booking
	events event.Publisher
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(repo repository.Booking, events event.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:   repo,
		events: events,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.BookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	booking := req.ToModel(user)

	booking.ID, err = s.repo.Insert(ctx, booking)
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	shared.BumpCacheVersion(ctx, s.cache, cacheBookingVersion)
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)

	res.FromModel(booking)
	s.publish(ctx, event.TypeCreated, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter.Values())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheBookingVersion)
	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total)

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheBookingVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheBookingVersion)

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheBookingVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.BookingRequest, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return res, fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, id)

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	s.publish(ctx, event.TypeUpdated, res)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, event.TypeDeleted, res)

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	shared.BumpCacheVersion(ctx, s.cache, cacheBookingVersion)

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
}

// publish sends the event after the response is decided; a failure is only logged.
func (s *serviceImpl) publish(ctx context.Context, eventType string, booking dto.BookingResponse) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.events.Publish(c, eventType, booking); err != nil {
			log.Error().Err(err).Str("event", eventType).Int64("id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}
