package shared

import (
	"context"
	"fmt"
	"littlelemon/shared/cache"
	"littlelemon/shared/constant"
	"littlelemon/shared/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/timezone"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

// TransformFields converts the set fields of a request struct into a column -> value map for an update.
// Nil pointers and zero values are skipped, pointers are dereferenced.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	typ := val.Type()

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id int64, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins prefix and parts into a key such as "menu:item:42".
func BuildCacheKey(prefix string, parts ...any) string {
	keys := []string{prefix}

	for _, part := range parts {
		keys = append(keys, fmt.Sprint(part))
	}

	return strings.Join(keys, cacheKeySeparator)
}

// BuildCacheKeyWithQuery builds a list cache key that changes with pagination and filter values.
// Filter keys are sorted so the same query always maps to the same key.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filters url.Values) string {
	parts := []any{
		fmt.Sprintf("page=%d", params.Page),
		fmt.Sprintf("limit=%d", params.Limit),
	}

	for _, key := range slices.Sorted(maps.Keys(filters)) {
		parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(filters[key], ",")))
	}

	return BuildCacheKey(prefix, parts...)
}

// InvalidateCaches clears every key under each prefix. Failures are logged, not returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
		}
	}
}

// CacheVersion reads the generation at versionKey ahead of a storage read.
// ok is false when it cannot be read; the result must not be cached then.
func CacheVersion(ctx context.Context, redisCache cache.RedisCache, versionKey string) (version int64, ok bool) {
	version, err := redisCache.Version(ctx, versionKey)
	if err != nil {
		log.Error().Err(err).Str("key", versionKey).Msg("failed to read cache version")

		return 0, false
	}

	return version, true
}

// FillCache saves value under key in the background. The write is dropped when a
// BumpCacheVersion on versionKey happened after version was read.
func FillCache(ctx context.Context, redisCache cache.RedisCache, key string, value any, ttl int, versionKey string, version int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := redisCache.SaveIfVersion(c, key, value, ttl, versionKey, version); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to save to cache")
		}
	}()
}

// BumpCacheVersion must run after the storage write and before the keys are cleared.
func BumpCacheVersion(ctx context.Context, redisCache cache.RedisCache, versionKey string) {
	if err := redisCache.Bump(ctx, versionKey); err != nil {
		log.Error().Err(err).Str("key", versionKey).Msg("failed to bump cache version")
	}
}

// ParseID reads a positive integer identifier from a path segment.
// Anything else cannot name a row, so it is reported as not found.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NotFound(constant.ResponseErrorNotFound) //nolint:wrapcheck
	}

	return id, nil
}
