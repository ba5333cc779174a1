package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"littlelemon/config"
	"littlelemon/infras/otel/mocks"
	menuMocks "littlelemon/internal/domains/menu/mocks"
	"littlelemon/internal/domains/menu/model"
	"littlelemon/internal/domains/menu/model/dto"
	"littlelemon/internal/domains/menu/service"
	"littlelemon/shared/cache"
	cacheMocks "littlelemon/shared/cache/mocks"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
)

func newService(t *testing.T) (service.Menu, *menuMocks.MockMenu, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := menuMocks.NewMockMenu(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "mario")

	tests := []struct {
		name      string
		req       dto.MenuItemRequest
		setupMock func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache)
		want      dto.MenuItemResponse
		wantErr   bool
	}{
		{
			name: "applies default inventory",
			req:  dto.MenuItemRequest{Title: strPtr("IceCream"), Price: decPtr("80")},
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item model.MenuItem) (int64, error) {
						assert.Equal(t, model.DefaultInventory, item.Inventory)
						assert.Equal(t, "mario", item.CreatedBy)

						return 1, nil
					})
				c.EXPECT().Bump(gomock.Any(), "menu:version").Return(nil)
				c.EXPECT().Clear(gomock.Any(), "menu:list*").Return(nil)
			},
			want: dto.MenuItemResponse{ID: 1, Title: "IceCream", Price: "80.00", Inventory: 5},
		},
		{
			name: "keeps explicit zero inventory",
			req:  dto.MenuItemRequest{Title: strPtr("Soup"), Price: decPtr("3.5"), Inventory: intPtr(0)},
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(2), nil)
				c.EXPECT().Bump(gomock.Any(), "menu:version").Return(nil)
				c.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: dto.MenuItemResponse{ID: 2, Title: "Soup", Price: "3.50", Inventory: 0},
		},
		{
			name: "repository error",
			req:  dto.MenuItemRequest{Title: strPtr("Soup"), Price: decPtr("3.5")},
			setupMock: func(repo *menuMocks.MockMenu, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestMenuService_GetAll(t *testing.T) {
	params := gDto.QueryParams{}
	items := []model.MenuItem{
		{ID: 2, Title: "Bruschetta", Price: decimal.RequireFromString("7.99"), Inventory: 3},
		{ID: 1, Title: "Greek salad", Price: decimal.RequireFromString("12.5"), Inventory: 0},
	}

	t.Run("cache hit", func(t *testing.T) {
		svc, _, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), "menu:list:page=0:limit=0", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.GetMenuItemsResponse)
				res.Total = 9

				return nil
			})

		res, err := svc.GetAll(context.Background(), params, dto.MenuFilter{})

		assert.NoError(t, err)
		assert.Equal(t, 9, res.Total)
	})

	t.Run("cache miss reads storage", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockCache.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
		mockCache.EXPECT().SaveIfVersion(gomock.Any(), gomock.Any(), gomock.Any(), 3600, "menu:version", int64(0)).Return(nil).AnyTimes()
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(items, nil)

		res, err := svc.GetAll(context.Background(), params, dto.MenuFilter{})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, "Bruschetta", res.Items[0].Title)
		assert.Equal(t, "12.50", res.Items[1].Price)
	})

	t.Run("count error", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockCache.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := svc.GetAll(context.Background(), params, dto.MenuFilter{})

		assert.Error(t, err)
	})

	t.Run("get all error", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockCache.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

		_, err := svc.GetAll(context.Background(), params, dto.MenuFilter{})

		assert.Error(t, err)
	})
}

func TestMenuService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache)
		want      dto.MenuItemResponse
		notFound  bool
		wantErr   bool
	}{
		{
			name: "from storage",
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), "menu:item:4", gomock.Any()).Return(cache.Nil)
				c.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
				c.EXPECT().SaveIfVersion(gomock.Any(), "menu:item:4", gomock.Any(), 3600, "menu:version", int64(0)).Return(nil).AnyTimes()
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.MenuItem{ID: 4, Title: "IceCream", Price: decimal.RequireFromString("80"), Inventory: 100}, nil)
			},
			want: dto.MenuItemResponse{ID: 4, Title: "IceCream", Price: "80.00", Inventory: 100},
		},
		{
			name: "not found",
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				c.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MenuItem{}, nil)
			},
			notFound: true,
			wantErr:  true,
		},
		{
			name: "repository error",
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
				c.EXPECT().Version(gomock.Any(), "menu:version").Return(int64(0), nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MenuItem{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), 4)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.notFound, failure.IsNotFound(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestMenuService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "mario")

	t.Run("writes only present fields", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 0, fields[model.FieldInventory])
				assert.NotContains(t, fields, model.FieldTitle)
				assert.NotContains(t, fields, model.FieldPrice)
				assert.Equal(t, "mario", fields[constant.FieldModifiedBy])

				return nil
			})
		mockCache.EXPECT().Bump(gomock.Any(), "menu:version").Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), "menu:item:3").Return(nil)
		mockCache.EXPECT().Clear(gomock.Any(), "menu:list*").Return(nil)
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MenuItem{ID: 3, Title: "Soup", Price: decimal.RequireFromString("3.5"), Inventory: 0}, nil)

		res, err := svc.Update(ctx, dto.MenuItemRequest{Inventory: intPtr(0)}, 3)

		assert.NoError(t, err)
		assert.Equal(t, dto.MenuItemResponse{ID: 3, Title: "Soup", Price: "3.50", Inventory: 0}, res)
	})

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Update(ctx, dto.MenuItemRequest{Title: strPtr("x")}, 3)

		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("update error", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := svc.Update(ctx, dto.MenuItemRequest{Title: strPtr("x")}, 3)

		assert.Error(t, err)
		assert.False(t, failure.IsNotFound(err))
	})
}

func TestMenuService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache)
		notFound  bool
		wantErr   bool
	}{
		{
			name: "deleted",
			setupMock: func(repo *menuMocks.MockMenu, c *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				c.EXPECT().Bump(gomock.Any(), "menu:version").Return(nil)
				c.EXPECT().Delete(gomock.Any(), "menu:item:8").Return(nil)
				c.EXPECT().Clear(gomock.Any(), "menu:list*").Return(errors.New("redis down"))
			},
		},
		{
			name: "not found",
			setupMock: func(repo *menuMocks.MockMenu, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			notFound: true,
			wantErr:  true,
		},
		{
			name: "exist error",
			setupMock: func(repo *menuMocks.MockMenu, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)
			tt.setupMock(mockRepo, mockCache)

			err := svc.Delete(context.Background(), 8)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.notFound, failure.IsNotFound(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

// The detached fill of a read that started before an update must not land after it.
func TestMenuService_FillRacingUpdate(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "mario")
	svc, mockRepo, mockCache := newService(t)

	var (
		mu      sync.Mutex
		version int64
		filled  []dto.MenuItemResponse
	)

	release := make(chan struct{})
	done := make(chan struct{})

	stored := model.MenuItem{ID: 5, Title: "Soup", Price: decimal.RequireFromString("3.5"), Inventory: 1}
	updated := stored
	updated.Title = "Minestrone"

	mockCache.EXPECT().Get(gomock.Any(), "menu:item:5", gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().
		Version(gomock.Any(), "menu:version").
		DoAndReturn(func(context.Context, string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()

			return version, nil
		})
	mockCache.EXPECT().
		SaveIfVersion(gomock.Any(), "menu:item:5", gomock.Any(), 3600, "menu:version", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any, _ int, _ string, readAt int64) error {
			defer close(done)

			<-release

			mu.Lock()
			defer mu.Unlock()

			if readAt == version {
				filled = append(filled, value.(dto.MenuItemResponse))
			}

			return nil
		})
	mockCache.EXPECT().
		Bump(gomock.Any(), "menu:version").
		DoAndReturn(func(context.Context, string) error {
			mu.Lock()
			defer mu.Unlock()

			version++

			return nil
		})
	mockCache.EXPECT().Delete(gomock.Any(), "menu:item:5").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "menu:list*").Return(nil)

	gomock.InOrder(
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil),
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
	)
	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Soup", res.Title)

	res, err = svc.Update(ctx, dto.MenuItemRequest{Title: strPtr("Minestrone")}, 5)
	require.NoError(t, err)
	assert.Equal(t, "Minestrone", res.Title)

	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cache fill never ran")
	}

	mu.Lock()
	defer mu.Unlock()

	assert.Empty(t, filled)
}
