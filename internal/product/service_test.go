package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/till/internal/product"
)

func validFields() product.Fields {
	return product.Fields{
		Name:  "Espresso",
		Price: decimal.RequireFromString("2.50"),
		Cost:  decimal.RequireFromString("0.80"),
		Stock: 40,
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		fields    product.Fields
		setupMock func(m *product.MockRepository, fields product.Fields)
		wantLen   int
		wantErr   bool
	}

	negative := validFields()
	negative.Price = decimal.RequireFromString("-1")

	unnamed := validFields()
	unnamed.Name = ""

	tests := []testCase{
		{
			name:   "SuccessRefreshes",
			fields: validFields(),
			setupMock: func(m *product.MockRepository, fields product.Fields) {
				gomock.InOrder(
					m.EXPECT().CreateProduct(gomock.Any(), fields).Return(int64(7), nil),
					m.EXPECT().ListProducts(gomock.Any()).Return([]*product.Product{{ID: 7, Name: "Espresso"}}, nil),
				)
			},
			wantLen: 1,
		},
		{
			name:   "RepoErrorSkipsRefresh",
			fields: validFields(),
			setupMock: func(m *product.MockRepository, fields product.Fields) {
				m.EXPECT().CreateProduct(gomock.Any(), fields).Return(int64(0), errors.New("boom"))
			},
			wantErr: true,
		},
		{
			name:    "NegativePriceRejected",
			fields:  negative,
			wantErr: true,
		},
		{
			name:    "MissingNameRejected",
			fields:  unnamed,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := product.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tt.fields)
			}

			svc := product.NewService(repo)
			got, err := svc.Create(context.Background(), tt.fields)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	svc := product.NewService(repo)

	fields := validFields()
	fields.Stock = 0

	gomock.InOrder(
		repo.EXPECT().UpdateProduct(gomock.Any(), int64(3), fields).Return(nil),
		repo.EXPECT().ListProducts(gomock.Any()).Return([]*product.Product{{ID: 3}, {ID: 4}}, nil),
	)

	got, err := svc.Update(context.Background(), 3, fields)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := product.NewMockRepository(ctrl)
		svc := product.NewService(repo)

		gomock.InOrder(
			repo.EXPECT().DeleteProduct(gomock.Any(), int64(9)).Return(nil),
			repo.EXPECT().ListProducts(gomock.Any()).Return(nil, nil),
		)

		got, err := svc.Delete(context.Background(), 9)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("RefreshError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := product.NewMockRepository(ctrl)
		svc := product.NewService(repo)

		listErr := errors.New("list failed")

		repo.EXPECT().DeleteProduct(gomock.Any(), int64(9)).Return(nil)
		repo.EXPECT().ListProducts(gomock.Any()).Return(nil, listErr)

		_, err := svc.Delete(context.Background(), 9)
		assert.ErrorIs(t, err, listErr)
	})
}

func TestService_ResetDemoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	svc := product.NewService(repo)

	gomock.InOrder(
		repo.EXPECT().ResetDemoData(gomock.Any()).Return(nil),
		repo.EXPECT().ListProducts(gomock.Any()).Return([]*product.Product{{ID: 1}}, nil),
	)

	got, err := svc.ResetDemoData(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	svc := product.NewService(repo)

	repo.EXPECT().GetProduct(gomock.Any(), int64(42)).Return(nil, product.ErrNotFound)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, product.ErrNotFound)
}
