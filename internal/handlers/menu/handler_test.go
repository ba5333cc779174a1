package menu_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/domains/menu/model/dto"
	serviceMocks "littlelemon/internal/domains/menu/service/mocks"
	"littlelemon/internal/handlers/menu"
	"littlelemon/shared/constant"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
)

func newRouter(t *testing.T) (*chi.Mux, *serviceMocks.MockMenu) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := serviceMocks.NewMockMenu(ctrl)

	handler := menu.New(mockService, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/api", handler.Router)

	return router, mockService
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_CreateMenuItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(dto.MenuItemResponse{ID: 1, Title: "IceCream", Price: "80.00", Inventory: 5}, nil)

		rec := serve(router, http.MethodPost, "/api/menu/", `{"title": "IceCream", "price": 80}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id": 1, "title": "IceCream", "price": "80.00", "inventory": 5}`, rec.Body.String())
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, http.MethodPost, "/api/menu/", `{"title": "IceCream"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"price": ["price is required"]}`, rec.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.MenuItemResponse{}, errors.New("database error"))

		rec := serve(router, http.MethodPost, "/api/menu/", `{"title": "IceCream", "price": "80"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_GetMenuItems(t *testing.T) {
	t.Run("bare list with total header", func(t *testing.T) {
		router, mockService := newRouter(t)

		available := true

		mockService.EXPECT().
			GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 1}, dto.MenuFilter{Search: "salad", Available: &available}).
			Return(dto.GetMenuItemsResponse{
				Items: []dto.MenuItemResponse{{ID: 2, Title: "Greek salad", Price: "12.50", Inventory: 3}},
				Total: 4,
			}, nil)

		rec := serve(router, http.MethodGet, "/api/menu/?search=salad&available=true&page=1&limit=1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "4", rec.Header().Get(constant.ResponseHeaderTotalCount))
		assert.JSONEq(t, `[{"id": 2, "title": "Greek salad", "price": "12.50", "inventory": 3}]`, rec.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.GetMenuItemsResponse{}, nil)

		rec := serve(router, http.MethodGet, "/api/menu/", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("invalid page", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, http.MethodGet, "/api/menu/?page=zero", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetMenuItem(t *testing.T) {
	tests := []struct {
		name   string
		target string
		setup  func(m *serviceMocks.MockMenu)
		code   int
	}{
		{
			name:   "found",
			target: "/api/menu/3/",
			setup: func(m *serviceMocks.MockMenu) {
				m.EXPECT().Get(gomock.Any(), int64(3)).Return(dto.MenuItemResponse{ID: 3}, nil)
			},
			code: http.StatusOK,
		},
		{
			name:   "missing",
			target: "/api/menu/99/",
			setup: func(m *serviceMocks.MockMenu) {
				m.EXPECT().Get(gomock.Any(), int64(99)).Return(dto.MenuItemResponse{}, failure.NotFound(constant.ResponseErrorNotFound))
			},
			code: http.StatusNotFound,
		},
		{
			name:   "non integer id",
			target: "/api/menu/abc/",
			setup:  func(*serviceMocks.MockMenu) {},
			code:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService := newRouter(t)
			tt.setup(mockService)

			rec := serve(router, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandler_UpdateMenuItem(t *testing.T) {
	t.Run("put requires every field", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, http.MethodPut, "/api/menu/3/", `{"inventory": 2}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"title": ["title is required"], "price": ["price is required"]}`, rec.Body.String())
	})

	t.Run("put", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Update(gomock.Any(), gomock.Any(), int64(3)).
			Return(dto.MenuItemResponse{ID: 3, Title: "Soup", Price: "4.00", Inventory: 2}, nil)

		rec := serve(router, http.MethodPut, "/api/menu/3/", `{"title": "Soup", "price": 4, "inventory": 2}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id": 3, "title": "Soup", "price": "4.00", "inventory": 2}`, rec.Body.String())
	})

	t.Run("patch sends only present fields", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Update(gomock.Any(), gomock.Any(), int64(3)).
			DoAndReturn(func(_ any, req dto.MenuItemRequest, _ int64) (dto.MenuItemResponse, error) {
				assert.Nil(t, req.Title)
				assert.Nil(t, req.Price)
				assert.Equal(t, 0, *req.Inventory)

				return dto.MenuItemResponse{ID: 3, Title: "Soup", Price: "4.00"}, nil
			})

		rec := serve(router, http.MethodPatch, "/api/menu/3/", `{"inventory": 0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("patch missing item", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Update(gomock.Any(), gomock.Any(), int64(9)).
			Return(dto.MenuItemResponse{}, failure.NotFound(constant.ResponseErrorNotFound))

		rec := serve(router, http.MethodPatch, "/api/menu/9/", `{"title": "Soup"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error": "not found"}`, rec.Body.String())
	})
}

func TestHandler_DeleteMenuItem(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	rec := serve(router, http.MethodDelete, "/api/menu/5/", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	mockService.EXPECT().Delete(gomock.Any(), int64(5)).Return(failure.NotFound(constant.ResponseErrorNotFound))

	rec = serve(router, http.MethodDelete, "/api/menu/5/", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
