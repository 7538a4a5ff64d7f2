package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/fold"
	"github.com/MrJamesThe3rd/till/internal/product"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrLineNotFound      = errors.New("cart line not found")
)

// Line is one product in the cart. A cart never holds two lines for the same
// product.
type Line struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item is a checkout entry as submitted to the server.
type Item struct {
	ProductID int64
	Quantity  int
}

// Receipt identifies the transaction created by a successful checkout.
type Receipt struct {
	TransactionID int64
}

//go:generate mockgen -source=cart.go -destination=checkouter_mock.go -package=cart
type Checkouter interface {
	Checkout(ctx context.Context, items []Item) (*Receipt, error)
}

// Cart is the register's shopping cart. Products are looked up in the snapshot
// passed to SetProducts.
type Cart struct {
	checkouter Checkouter
	products   []*product.Product
	lines      []Line
}

func New(checkouter Checkouter) *Cart {
	return &Cart{checkouter: checkouter}
}

// SetProducts replaces the product snapshot used by Add, Search and BestMatch.
// Lines already in the cart keep the name and price they were added with.
func (c *Cart) SetProducts(products []*product.Product) {
	c.products = products
}

func (c *Cart) Products() []*product.Product {
	return c.products
}

// Lines returns a copy of the cart lines in display order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)

	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) find(productID int64) *product.Product {
	for _, p := range c.products {
		if p.ID == productID {
			return p
		}
	}

	return nil
}

// Add puts qty units of a product in the cart, merging into the existing line
// when there is one. Quantities below 1 count as 1. The added product is
// returned for the caller's confirmation notice.
func (c *Cart) Add(productID int64, qty int) (*product.Product, error) {
	p := c.find(productID)
	if p == nil {
		return nil, ErrProductNotFound
	}

	if p.Stock <= 0 {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrInsufficientStock)
	}

	qty = max(qty, 1)

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += qty
			return p, nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	})

	return p, nil
}

func (c *Cart) AddOne(productID int64) (*product.Product, error) {
	return c.Add(productID, 1)
}

// ChangeQuantity sets the quantity of line idx from user input. Input that is
// not a number, or is below 1, sets the quantity to 1.
func (c *Cart) ChangeQuantity(idx int, value string) error {
	n, ok := parseLeadingInt(value)
	if !ok {
		n = 1
	}

	return c.SetQuantity(idx, n)
}

// SetQuantity sets the quantity of line idx, raising it to 1 if lower.
func (c *Cart) SetQuantity(idx, qty int) error {
	if idx < 0 || idx >= len(c.lines) {
		return ErrLineNotFound
	}

	c.lines[idx].Quantity = max(qty, 1)

	return nil
}

// Remove deletes line idx. Lines after it move down by one.
func (c *Cart) Remove(idx int) error {
	if idx < 0 || idx >= len(c.lines) {
		return ErrLineNotFound
	}

	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)

	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Totals returns the amount due and the number of units in the cart.
func (c *Cart) Totals() (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0

	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}

	return total, count
}

// Checkout submits the cart. On success the cart is emptied; on any failure it
// is left exactly as it was.
func (c *Cart) Checkout(ctx context.Context) (*Receipt, error) {
	if len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, len(c.lines))
	for i, l := range c.lines {
		items[i] = Item{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	receipt, err := c.checkouter.Checkout(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	c.Clear()

	return receipt, nil
}

// Search returns up to limit products whose name contains query.
func (c *Cart) Search(query string, limit int) []*product.Product {
	if query == "" {
		return nil
	}

	var matches []*product.Product

	for _, p := range c.products {
		if len(matches) == limit {
			break
		}

		if fold.Contains(p.Name, query) {
			matches = append(matches, p)
		}
	}

	return matches
}

// BestMatch returns the product named exactly query, or failing that the first
// product whose name contains it. It returns nil when nothing matches.
func (c *Cart) BestMatch(query string) *product.Product {
	if query == "" {
		return nil
	}

	for _, p := range c.products {
		if fold.Equal(p.Name, query) {
			return p
		}
	}

	for _, p := range c.products {
		if fold.Contains(p.Name, query) {
			return p
		}
	}

	return nil
}
