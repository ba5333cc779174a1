package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"littlelemon/config"
	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/domains/booking/event"
	eventMocks "littlelemon/internal/domains/booking/event/mocks"
	bookingMocks "littlelemon/internal/domains/booking/mocks"
	"littlelemon/internal/domains/booking/model"
	"littlelemon/internal/domains/booking/model/dto"
	"littlelemon/internal/domains/booking/service"
	"littlelemon/shared/cache"
	cacheMocks "littlelemon/shared/cache/mocks"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/timezone"
)

type fixture struct {
	svc       service.Booking
	repo      *bookingMocks.MockBooking
	cache     *cacheMocks.MockRedisCache
	publisher *eventMocks.MockPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, f.publisher, cfg, f.cache, mocks.NewOtel())

	return f
}

// expectEvent records the published event type on a channel.
func (f fixture) expectEvent(err error) <-chan string {
	published := make(chan string, 1)

	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, eventType string, _ dto.BookingResponse) error {
			published <- eventType

			return err
		})

	return published
}

func waitEvent(t *testing.T, published <-chan string) string {
	t.Helper()

	select {
	case eventType := <-published:
		return eventType
	case <-time.After(time.Second):
		t.Fatal("booking event was not published")

		return ""
	}
}

var bookingDate = time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

func stored(id int64) model.Booking {
	return model.Booking{ID: id, Name: "Mario", NumberOfGuests: 4, BookingDate: bookingDate}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "luigi")
	name := "Mario"
	date := timezone.DateTime(bookingDate)

	t.Run("created with default guests", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) (int64, error) {
				assert.Equal(t, model.DefaultNumberOfGuests, booking.NumberOfGuests)
				assert.Equal(t, "luigi", booking.CreatedBy)

				return 7, nil
			})
		f.cache.EXPECT().Bump(gomock.Any(), "booking:version").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "booking:list*").Return(nil)
		published := f.expectEvent(errors.New("broker down"))

		res, err := f.svc.Create(ctx, dto.BookingRequest{Name: &name, BookingDate: &date})

		require.NoError(t, err)
		assert.Equal(t, int64(7), res.ID)
		assert.Equal(t, 6, res.NumberOfGuests)
		assert.Equal(t, event.TypeCreated, waitEvent(t, published))
	})

	t.Run("storage failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))

		_, err := f.svc.Create(ctx, dto.BookingRequest{Name: &name, BookingDate: &date})

		assert.Error(t, err)
	})
}

func TestBookingService_GetAll(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, timezone.GetLocation())
	filter := dto.BookingFilter{Date: &day}

	t.Run("cache miss", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "booking:list:page=0:limit=0:date=2024-05-01", gomock.Any()).Return(cache.Nil)
		f.cache.EXPECT().Version(gomock.Any(), "booking:version").Return(int64(0), nil)
		f.cache.EXPECT().SaveIfVersion(gomock.Any(), gomock.Any(), gomock.Any(), 60, "booking:version", int64(0)).Return(nil).AnyTimes()
		f.repo.EXPECT().Count(gomock.Any(), filter.ToFilterGroup()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, filter.ToFilterGroup()).Return([]model.Booking{stored(1)}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, filter)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "Mario", res.Items[0].Name)
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.cache.EXPECT().Version(gomock.Any(), "booking:version").Return(int64(0), nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, dto.BookingFilter{})

		assert.Error(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "booking:item:1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.BookingResponse)
				res.ID = 1

				return nil
			})

		res, err := f.svc.Get(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.cache.EXPECT().Version(gomock.Any(), "booking:version").Return(int64(0), nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), 1)

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "luigi")

	t.Run("partial update never applies defaults", func(t *testing.T) {
		f := newFixture(t)
		name := "Luigi"

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Luigi", fields[model.FieldName])
				assert.NotContains(t, fields, model.FieldNumberOfGuests)
				assert.NotContains(t, fields, model.FieldBookingDate)

				return nil
			})
		f.cache.EXPECT().Bump(gomock.Any(), "booking:version").Return(nil)
		f.cache.EXPECT().Delete(gomock.Any(), "booking:item:2").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "booking:list*").Return(nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(2), nil)
		published := f.expectEvent(nil)

		res, err := f.svc.Update(ctx, dto.BookingRequest{Name: &name}, 2)

		require.NoError(t, err)
		assert.Equal(t, 4, res.NumberOfGuests)
		assert.Equal(t, event.TypeUpdated, waitEvent(t, published))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Update(ctx, dto.BookingRequest{}, 2)

		assert.True(t, failure.IsNotFound(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(3), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.cache.EXPECT().Bump(gomock.Any(), "booking:version").Return(nil)
		f.cache.EXPECT().Delete(gomock.Any(), "booking:item:3").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "booking:list*").Return(nil)
		published := f.expectEvent(nil)

		require.NoError(t, f.svc.Delete(context.Background(), 3))
		assert.Equal(t, event.TypeDeleted, waitEvent(t, published))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		assert.True(t, failure.IsNotFound(f.svc.Delete(context.Background(), 3)))
	})

	t.Run("delete error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(3), nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		assert.Error(t, f.svc.Delete(context.Background(), 3))
	})
}

func TestBookingService_ListFillRacingCreate(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "luigi")
	f := newFixture(t)
	name := "Luigi"
	date := timezone.DateTime(bookingDate)

	var (
		mu      sync.Mutex
		version int64
		filled  int
	)

	release := make(chan struct{})
	done := make(chan struct{})

	f.cache.EXPECT().Get(gomock.Any(), "booking:list:page=0:limit=0", gomock.Any()).Return(cache.Nil)
	f.cache.EXPECT().
		Version(gomock.Any(), "booking:version").
		DoAndReturn(func(context.Context, string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()

			return version, nil
		})
	f.cache.EXPECT().
		SaveIfVersion(gomock.Any(), "booking:list:page=0:limit=0", gomock.Any(), 60, "booking:version", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ any, _ int, _ string, readAt int64) error {
			defer close(done)

			<-release

			mu.Lock()
			defer mu.Unlock()

			if readAt == version {
				filled++
			}

			return nil
		})
	f.cache.EXPECT().
		Bump(gomock.Any(), "booking:version").
		DoAndReturn(func(context.Context, string) error {
			mu.Lock()
			defer mu.Unlock()

			version++

			return nil
		})
	f.cache.EXPECT().Clear(gomock.Any(), "booking:list*").Return(nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{stored(1)}, nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(2), nil)
	published := f.expectEvent(nil)

	list, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, dto.BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = f.svc.Create(ctx, dto.BookingRequest{Name: &name, BookingDate: &date})
	require.NoError(t, err)
	assert.Equal(t, event.TypeCreated, waitEvent(t, published))

	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cache fill never ran")
	}

	mu.Lock()
	defer mu.Unlock()

	assert.Zero(t, filled)
}
