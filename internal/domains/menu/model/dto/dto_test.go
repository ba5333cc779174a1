package dto_test

import (
	"littlelemon/internal/domains/menu/model"
	"littlelemon/internal/domains/menu/model/dto"
	"littlelemon/shared/failure"
	"littlelemon/shared/validator"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItemRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields map[string][]string
	}{
		{
			name: "valid with numeric price",
			body: `{"title": "Greek salad", "price": 12.5, "inventory": 3}`,
		},
		{
			name: "valid with string price",
			body: `{"title": "IceCream", "price": "80.00"}`,
		},
		{
			name:   "missing title and price",
			body:   `{"inventory": 3}`,
			fields: map[string][]string{"title": {"title is required"}, "price": {"price is required"}},
		},
		{
			name:   "price not a decimal",
			body:   `{"title": "Soup", "price": "cheap"}`,
			fields: map[string][]string{"price": {"price must be a valid number"}},
		},
		{
			name:   "inventory not an integer",
			body:   `{"title": "Soup", "price": 3, "inventory": 2.5}`,
			fields: map[string][]string{"inventory": {"inventory must be a valid integer"}},
		},
		{
			name:   "too many decimal places",
			body:   `{"title": "Soup", "price": 3.555}`,
			fields: map[string][]string{"price": {"price must have no more than 2 decimal places"}},
		},
		{
			name:   "too many digits",
			body:   `{"title": "Soup", "price": "12345678901"}`,
			fields: map[string][]string{"price": {"price must have no more than 10 digits in total"}},
		},
		{
			name:   "blank title",
			body:   `{"title": "   ", "price": 1}`,
			fields: map[string][]string{"title": {"title may not be blank"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.MenuItemRequest{}

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.fields == nil {
				require.NoError(t, err)

				return
			}

			assert.Equal(t, tt.fields, failure.GetFields(err))
		})
	}
}

func TestMenuItemRequest_ValidatePartial(t *testing.T) {
	req := dto.MenuItemRequest{}

	require.NoError(t, validator.ValidatePartial(strings.NewReader(`{"inventory": 0}`), &req))
	assert.Nil(t, req.Title)
	assert.Nil(t, req.Price)
	assert.Equal(t, 0, *req.Inventory)

	err := validator.ValidatePartial(strings.NewReader(`{"price": null}`), &dto.MenuItemRequest{})
	assert.Equal(t, map[string][]string{"price": {"price may not be null"}}, failure.GetFields(err))

	err = validator.ValidatePartial(strings.NewReader(`{"inventory": null}`), &dto.MenuItemRequest{})
	assert.Equal(t, map[string][]string{"inventory": {"inventory may not be null"}}, failure.GetFields(err))

	err = validator.ValidatePartial(strings.NewReader(`{"price": "1.001"}`), &dto.MenuItemRequest{})
	assert.Equal(t, map[string][]string{"price": {"price must have no more than 2 decimal places"}}, failure.GetFields(err))
}

func TestMenuItemRequest_ToModel(t *testing.T) {
	title := "Greek salad"
	price := decimal.RequireFromString("12.50")

	item := (&dto.MenuItemRequest{Title: &title, Price: &price}).ToModel("mario")

	assert.Equal(t, "Greek salad", item.Title)
	assert.True(t, price.Equal(item.Price))
	assert.Equal(t, model.DefaultInventory, item.Inventory)
	assert.Equal(t, "mario", item.CreatedBy)
	assert.Equal(t, "mario", item.ModifiedBy)

	zero := 0
	item = (&dto.MenuItemRequest{Title: &title, Price: &price, Inventory: &zero}).ToModel("mario")
	assert.Equal(t, 0, item.Inventory)
}

func TestMenuItemResponse_FromModel(t *testing.T) {
	res := dto.MenuItemResponse{}
	res.FromModel(model.MenuItem{ID: 7, Title: "IceCream", Price: decimal.RequireFromString("80"), Inventory: 100})

	assert.Equal(t, dto.MenuItemResponse{ID: 7, Title: "IceCream", Price: "80.00", Inventory: 100}, res)
}

func TestMenuFilter(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		where  string
		args   map[string]any
		values string
		err    bool
	}{
		{
			name:  "no filter",
			query: "",
			where: "",
			args:  map[string]any{},
		},
		{
			name:   "search and available",
			query:  "search=Salad&available=true",
			where:  "(LOWER(menu_items.title) LIKE LOWER(:title)  AND menu_items.inventory > :inventory)",
			args:   map[string]any{"title": "%Salad%", "inventory": 0},
			values: "available=true&search=salad",
		},
		{
			name:   "unavailable",
			query:  "available=false",
			where:  "(menu_items.inventory <= :inventory)",
			args:   map[string]any{"inventory": 0},
			values: "available=false",
		},
		{
			name:  "bad boolean",
			query: "available=soon",
			err:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/menu/?"+tt.query, nil)

			filter := dto.MenuFilter{}
			err := filter.FromRequest(r)

			if tt.err {
				assert.Equal(t, map[string][]string{"available": {"available must be a valid boolean"}}, failure.GetFields(err))

				return
			}

			require.NoError(t, err)

			group := filter.ToFilterGroup()
			where, args := group.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
			assert.Equal(t, tt.values, filter.Values().Encode())
		})
	}
}
