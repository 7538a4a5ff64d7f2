package posapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/product"
)

type productResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int             `json:"stock"`
}

func (r productResponse) toProduct() *product.Product {
	return &product.Product{
		ID:    r.ID,
		Name:  r.Name,
		Price: r.Price,
		Cost:  r.Cost,
		Stock: r.Stock,
	}
}

// productRequest sends money as JSON numbers, written from the exact decimal
// rather than through a float.
type productRequest struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Cost  json.Number `json:"cost"`
	Stock int         `json:"stock"`
}

func toProductRequest(f product.Fields) productRequest {
	return productRequest{
		Name:  f.Name,
		Price: json.Number(f.Price.String()),
		Cost:  json.Number(f.Cost.String()),
		Stock: f.Stock,
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) ListProducts(ctx context.Context) ([]*product.Product, error) {
	var resp []productResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products"}, &resp); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]*product.Product, len(resp))
	for i, r := range resp {
		products[i] = r.toProduct()
	}

	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	var resp productResponse

	err := c.do(ctx, request{method: http.MethodGet, path: productPath(id)}, &resp)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	return resp.toProduct(), nil
}

func (c *Client) CreateProduct(ctx context.Context, fields product.Fields) (int64, error) {
	var resp createdResponse

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/products",
		body:   toProductRequest(fields),
	}, &resp)
	if err != nil {
		return 0, err
	}

	return resp.ID, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, fields product.Fields) error {
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   productPath(id),
		body:   toProductRequest(fields),
	}, nil)
	if isStatus(err, http.StatusNotFound) {
		return product.ErrNotFound
	}

	return err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: productPath(id)}, nil)
	if isStatus(err, http.StatusNotFound) {
		return product.ErrNotFound
	}

	return err
}

// ResetDemoData asks the server to wipe its data and seed sample products and
// transactions.
func (c *Client) ResetDemoData(ctx context.Context) error {
	header := http.Header{}
	if c.adminKey != "" {
		header.Set(headerAdminKey, c.adminKey)
	}

	return c.do(ctx, request{method: http.MethodPost, path: "/reset_seed", header: header}, nil)
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

func isStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
