package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/user/model"
	"littlelemon/internal/domains/user/model/dto"
	"littlelemon/internal/domains/user/repository"
	"littlelemon/shared"
	"littlelemon/shared/cache"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser     = "user:item"
	cacheGetAllUser  = "user:list"
	cacheGetAllGroup = "group:list"
	cacheUserVersion = "user:version"

	fieldGroups = "groups"
)

type User interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id int64) (dto.UserResponse, error)
	SetGroups(ctx context.Context, req dto.SetGroupsRequest, id int64) (dto.UserResponse, error)
	GetGroups(ctx context.Context) ([]dto.GroupResponse, error)
	CreateGroup(ctx context.Context, req dto.GroupRequest) (dto.GroupResponse, error)
}

type serviceImpl struct {
	users       repository.User
	groups      repository.Group
	memberships repository.Membership
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(users repository.User, groups repository.Group, memberships repository.Membership,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) User {
	return &serviceImpl{
		users:       users,
		groups:      groups,
		memberships: memberships,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, params, filter.Values())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheUserVersion)
	group := filter.ToFilterGroup()

	total, err := s.users.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := s.users.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	ids := make([]int64, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}

	names, err := s.groupNames(ctx, ids...)
	if err != nil {
		return res, err
	}

	res.FromModels(users, names, total)

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheUserVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheUserVersion)

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL, cacheUserVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) SetGroups(ctx context.Context, req dto.SetGroupsRequest, id int64) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetGroups")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.users.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	groupIDs, err := s.resolveGroups(ctx, req.Names())
	if err != nil {
		return res, err
	}

	if err = s.memberships.Replace(ctx, id, groupIDs); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to set user groups")

		return res, fmt.Errorf("failed to set user groups: %w", err)
	}

	InvalidateUsers(ctx, s.cache, id)

	return s.load(ctx, id)
}

func (s *serviceImpl) GetGroups(ctx context.Context) (res []dto.GroupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetGroups")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.cache.Get(ctx, cacheGetAllGroup, &res); err == nil {
		log.Info().Str("cacheKey", cacheGetAllGroup).Msg("cache hit for groups")

		return res, nil
	}

	version, cacheable := shared.CacheVersion(ctx, s.cache, cacheUserVersion)

	groups, err := s.groups.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get groups")

		return res, fmt.Errorf("failed to get groups: %w", err)
	}

	res = dto.FromGroups(groups)

	if cacheable {
		shared.FillCache(ctx, s.cache, cacheGetAllGroup, res, s.cfg.Cache.TTL, cacheUserVersion, version)
	}

	return res, nil
}

func (s *serviceImpl) CreateGroup(ctx context.Context, req dto.GroupRequest) (res dto.GroupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateGroup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUsername).(string)
	group := req.ToModel(user)

	exist, err := s.groups.Exist(ctx, byName([]string{group.Name}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if group exists")

		return res, fmt.Errorf("failed to check if group exists: %w", err)
	}

	if exist {
		return res, failure.FieldError(model.FieldGroupName, "group with this name already exists") //nolint:wrapcheck
	}

	group.ID, err = s.groups.Insert(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to create group")

		return res, fmt.Errorf("failed to create group: %w", err)
	}

	shared.BumpCacheVersion(ctx, s.cache, cacheUserVersion)

	if err := s.cache.Delete(ctx, cacheGetAllGroup); err != nil {
		log.Error().Err(err).Msg("failed to delete groups from cache")
	}

	res.FromModel(group)

	return res, nil
}

// InvalidateUsers drops the cached views of the given users and every cached user list.
// It must follow any write to the users or memberships tables.
func InvalidateUsers(ctx context.Context, redisCache cache.RedisCache, ids ...int64) {
	shared.BumpCacheVersion(ctx, redisCache, cacheUserVersion)

	for _, id := range ids {
		if err := redisCache.Delete(ctx, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to delete user from cache")
		}
	}

	shared.InvalidateCaches(ctx, redisCache, cacheGetAllUser)
}

func (s *serviceImpl) load(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	user, err := s.users.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return res, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	names, err := s.groupNames(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user, names[id])

	return res, nil
}

func (s *serviceImpl) groupNames(ctx context.Context, userIDs ...int64) (map[int64][]string, error) {
	if len(userIDs) == 0 {
		return map[int64][]string{}, nil
	}

	filter := gDto.FilterGroup{}
	filter.And(gDto.Filter{
		Field:    model.FieldUserID,
		Value:    userIDs,
		Operator: gDto.FilterOperatorIn,
		Table:    model.MembershipTableName,
	})

	memberships, err := s.memberships.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user groups")

		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}

	return model.GroupNames(memberships), nil
}

// resolveGroups maps names to group ids, rejecting the request when any name is unknown.
func (s *serviceImpl) resolveGroups(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return []int64{}, nil
	}

	groups, err := s.groups.GetAll(ctx, gDto.QueryParams{}, byName(names))
	if err != nil {
		log.Error().Err(err).Msg("failed to get groups")

		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	ids := make(map[string]int64, len(groups))
	for _, group := range groups {
		ids[group.Name] = group.ID
	}

	res := make([]int64, 0, len(names))
	messages := []string{}

	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			messages = append(messages, fmt.Sprintf("group %q does not exist", name))

			continue
		}

		res = append(res, id)
	}

	if len(messages) > 0 {
		return nil, failure.Validation(map[string][]string{fieldGroups: messages}) //nolint:wrapcheck
	}

	return res, nil
}

func byName(names []string) gDto.FilterGroup {
	filter := gDto.FilterGroup{}
	filter.And(gDto.Filter{
		Field:    model.FieldGroupName,
		Value:    names,
		Operator: gDto.FilterOperatorIn,
		Table:    model.GroupTableName,
	})

	return filter
}
