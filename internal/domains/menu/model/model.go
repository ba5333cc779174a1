package model

import (
	"littlelemon/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "menu_items"
	EntityName = "menu item"

	FieldID        = "id"
	FieldTitle     = "title"
	FieldPrice     = "price"
	FieldInventory = "inventory"

	DefaultInventory = 5
)

type MenuItem struct {
	ID        int64           `db:"id" insert:"-"`
	Title     string          `db:"title"`
	Price     decimal.Decimal `db:"price"`
	Inventory int             `db:"inventory"`
	model.Metadata
}

func (MenuItem) GetOrderQuery() string {
	return TableName + ".title ASC, " + TableName + ".id ASC"
}

// IsAvailable reports whether the item can still be ordered.
func (m MenuItem) IsAvailable() bool {
	return m.Inventory > 0
}

// String renders "Greek salad - $12.5"; the price keeps no trailing zeros.
func (m MenuItem) String() string {
	return m.Title + " - $" + m.Price.String()
}
