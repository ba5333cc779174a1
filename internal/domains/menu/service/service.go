package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/menu/model"
	"littlelemon/internal/domains/menu/model/dto"
	"littlelemon/internal/domains/menu/repository"
	"littlelemon/shared"
	"littlelemon/shared/cache"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMenuItem    = "menu:item"
	cacheGetAllMenuItem = "menu:list"
	cacheMenuVersion    = "menu:version"
)

type Menu interface {
	Create(ctx context.Context, req dto.MenuItemRequest) (dto.MenuItemResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.MenuFilter) (dto.GetMenuItemsResponse, error)
	Get(ctx context.Context, id int64) (dto.MenuItemResponse, error)
	Update(ctx context.Context, req dto.MenuItemRequest, id int64) (dto.MenuItemResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.Menu
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Menu, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Menu {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.MenuItemRequest) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	item := req.ToModel(user)

	item.ID, err = s.repo.Insert(ctx, item)
	if err != nil {
		log.Error().Err(err).Msg("failed to create menu item")

		return res, fmt.Errorf("failed to create menu item: %w", err)
	}

	shared.BumpCacheVersion(ctx, s.cache, cacheMenuVersion)
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllMenuItem)

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.MenuFilter) (res dto.GetMenuItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMenuItem, params, filter.Values())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for menu items")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheMenuVersion)
	group := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count menu items")

		return res, fmt.Errorf("failed to count menu items: %w", err)
	}

	items, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu items")

		return res, fmt.Errorf("failed to get menu items: %w", err)
	}

	res.FromModels(items, total)

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheMenuVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetMenuItem, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for menu item")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheMenuVersion)

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheMenuVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.MenuItemRequest, id int64) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if menu item exists")

		return res, fmt.Errorf("failed to check if menu item exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update menu item")

		return res, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.invalidate(ctx, id)

	return s.load(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if menu item exists")

		return fmt.Errorf("failed to check if menu item exists: %w", err)
	}

	if !exist {
		return failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete menu item")

		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// load reads a single item from storage, bypassing the cache.
func (s *serviceImpl) load(ctx context.Context, id int64) (res dto.MenuItemResponse, err error) {
	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get menu item")

		return res, fmt.Errorf("failed to get menu item: %w", err)
	}

	if item.ID == 0 {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	shared.BumpCacheVersion(ctx, s.cache, cacheMenuVersion)

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetMenuItem, id)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete menu item from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllMenuItem)
}
