package posapi

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/till/internal/cart"
)

type checkoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type checkoutResponse struct {
	TransactionID int64 `json:"transaction_id"`
}

// Checkout submits a sale. Only 201 Created counts as success.
func (c *Client) Checkout(ctx context.Context, items []cart.Item) (*cart.Receipt, error) {
	body := make([]checkoutItem, len(items))
	for i, it := range items {
		body[i] = checkoutItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	var resp checkoutResponse

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/checkout",
		body:   body,
		expect: []int{http.StatusCreated},
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &cart.Receipt{TransactionID: resp.TransactionID}, nil
}
