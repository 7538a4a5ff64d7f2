package posapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

type transactionResponse struct {
	ID          int64                     `json:"id"`
	Timestamp   string                    `json:"timestamp"`
	TotalAmount decimal.Decimal           `json:"total_amount"`
	Items       []transactionItemResponse `json:"items,omitempty"`
	// Error is set instead of the fields above when the lookup missed.
	Error string `json:"error,omitempty"`
}

type transactionItemResponse struct {
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
}

func (r transactionResponse) toTransaction() *transaction.Transaction {
	tx := &transaction.Transaction{
		ID:          r.ID,
		Timestamp:   r.Timestamp,
		TotalAmount: r.TotalAmount,
	}

	if len(r.Items) > 0 {
		tx.Items = make([]transaction.Item, len(r.Items))
		for i, it := range r.Items {
			tx.Items[i] = transaction.Item{
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				PriceAtSale: it.PriceAtSale,
			}
		}
	}

	return tx
}

func (c *Client) ListTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	var resp []transactionResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions"}, &resp); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, len(resp))
	for i, r := range resp {
		txs[i] = r.toTransaction()
	}

	return txs, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	var resp transactionResponse

	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/transactions/%d", id)}, &resp)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction %d: %w", id, err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", transaction.ErrNotFound, resp.Error)
	}

	return resp.toTransaction(), nil
}
