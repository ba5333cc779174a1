package dto

import (
	"littlelemon/internal/domains/menu/model"
	"littlelemon/shared"
	gDto "littlelemon/shared/dto"
	"littlelemon/shared/failure"
	gModel "littlelemon/shared/model"
	"littlelemon/shared/validator"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PriceMaxDigits     = 10
	PriceDecimalPlaces = 2

	QueryParamSearch    = "search"
	QueryParamAvailable = "available"
)

// MenuItemRequest is the body of create, full update and partial update.
// Price accepts a JSON number or a numeric string.
type MenuItemRequest struct {
	Title     *string          `db:"title"     json:"title"     validate:"required,notblank,max=255"`
	Price     *decimal.Decimal `db:"price"     json:"price"     validate:"required"                  kind:"number"`
	Inventory *int             `db:"inventory" json:"inventory" validate:"omitempty"`
}

func (m *MenuItemRequest) Check() map[string][]string {
	if m.Price == nil {
		return nil
	}

	if msgs := validator.Digits(model.FieldPrice, *m.Price, PriceMaxDigits, PriceDecimalPlaces); len(msgs) > 0 {
		return map[string][]string{model.FieldPrice: msgs}
	}

	return nil
}

func (m *MenuItemRequest) ToModel(user string) model.MenuItem {
	inventory := model.DefaultInventory
	if m.Inventory != nil {
		inventory = *m.Inventory
	}

	item := model.MenuItem{
		Inventory: inventory,
		Metadata:  gModel.NewMetadata(user),
	}

	if m.Title != nil {
		item.Title = *m.Title
	}

	if m.Price != nil {
		item.Price = *m.Price
	}

	return item
}

type MenuItemResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Inventory int    `json:"inventory"`
}

func (r *MenuItemResponse) FromModel(model model.MenuItem) {
	r.ID = model.ID
	r.Title = model.Title
	r.Price = model.Price.StringFixed(PriceDecimalPlaces)
	r.Inventory = model.Inventory
}

type GetMenuItemsResponse struct {
	Items []MenuItemResponse `json:"items"`
	Total int                `json:"total"`
}

func (r *GetMenuItemsResponse) FromModels(models []model.MenuItem, total int) {
	r.Total = total

	r.Items = make([]MenuItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}

// MenuFilter narrows a listing: search matches the title case-insensitively,
// available keeps items with (true) or without (false) inventory.
type MenuFilter struct {
	Search    string
	Available *bool
}

func (f *MenuFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.Search = strings.TrimSpace(query.Get(QueryParamSearch))

	if available := query.Get(QueryParamAvailable); available != "" {
		f.Available = shared.ConvertStringToBool(available)
		if f.Available == nil {
			return failure.FieldError(QueryParamAvailable, "available must be a valid boolean") //nolint:wrapcheck
		}
	}

	return nil
}

func (f *MenuFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{}

	if f.Search != "" {
		group.And(gDto.Filter{
			Field:    model.FieldTitle,
			Value:    f.Search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	if f.Available != nil {
		operator := gDto.FilterOperatorLessEq
		if *f.Available {
			operator = gDto.FilterOperatorGreater
		}

		group.And(gDto.Filter{
			Field:    model.FieldInventory,
			Value:    0,
			Operator: operator,
			Table:    model.TableName,
		})
	}

	return group
}

// Values is the canonical query form of the filter, used in cache keys.
func (f *MenuFilter) Values() url.Values {
	values := url.Values{}

	if f.Search != "" {
		values.Set(QueryParamSearch, strings.ToLower(f.Search))
	}

	if f.Available != nil {
		values.Set(QueryParamAvailable, strconv.FormatBool(*f.Available))
	}

	return values
}
