package product

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=product
type Repository interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, fields Fields) (int64, error)
	UpdateProduct(ctx context.Context, id int64, fields Fields) error
	DeleteProduct(ctx context.Context, id int64) error
	ResetDemoData(ctx context.Context) error
}

// Service issues product requests. Every successful mutation is followed by a
// full list refresh, and the refreshed list is what the caller gets back.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	return &Service{repo: repo, validate: v}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}

	return nil
}

func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Validate checks fields without issuing any request.
func (s *Service) Validate(fields Fields) error {
	if err := s.validate.Struct(fields); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, fields Fields) ([]*Product, error) {
	if err := s.Validate(fields); err != nil {
		return nil, err
	}

	if _, err := s.repo.CreateProduct(ctx, fields); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	return s.refresh(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, fields Fields) ([]*Product, error) {
	if err := s.Validate(fields); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}

	return s.refresh(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) ([]*Product, error) {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting product %d: %w", id, err)
	}

	return s.refresh(ctx)
}

// ResetDemoData asks the server to recreate its sample data.
func (s *Service) ResetDemoData(ctx context.Context) ([]*Product, error) {
	if err := s.repo.ResetDemoData(ctx); err != nil {
		return nil, fmt.Errorf("resetting demo data: %w", err)
	}

	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing products: %w", err)
	}

	return products, nil
}
