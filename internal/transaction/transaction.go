package transaction

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// TimestampLayout is the server's timestamp format. Timestamps in this layout
// sort chronologically as plain strings.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is a completed sale. Items are only populated when the
// transaction was fetched individually.
type Transaction struct {
	ID          int64
	Timestamp   string
	TotalAmount decimal.Decimal
	Items       []Item
}

// Item is one sold line of a transaction.
type Item struct {
	ProductID   int64
	Quantity    int
	PriceAtSale decimal.Decimal
}

func (i Item) Subtotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
