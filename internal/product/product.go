package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Product mirrors a product record owned by the server.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Cost  decimal.Decimal
	Stock int
}

// Fields are the editable attributes of a product, sent on create and update.
type Fields struct {
	Name  string          `validate:"required,max=128"`
	Price decimal.Decimal `validate:"gte=0"`
	Cost  decimal.Decimal `validate:"gte=0"`
	Stock int             `validate:"gte=0"`
}

// FieldsOf returns the editable attributes of p.
func FieldsOf(p *Product) Fields {
	return Fields{
		Name:  p.Name,
		Price: p.Price,
		Cost:  p.Cost,
		Stock: p.Stock,
	}
}
