package view

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals, e.g. "$9.90".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
