package transaction_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any()).
					Return([]*transaction.Transaction{{ID: 2}, {ID: 1}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any()).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), int64(404)).Return(nil, transaction.ErrNotFound)

	svc := transaction.NewService(repo)
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ExportReceipts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	list := []*transaction.Transaction{{ID: 5}, {ID: 6}}

	repo.EXPECT().GetTransaction(gomock.Any(), int64(5)).Return(&transaction.Transaction{
		ID:    5,
		Items: []transaction.Item{{ProductID: 1, Quantity: 2, PriceAtSale: decimal.RequireFromString("9.99")}},
	}, nil)
	repo.EXPECT().GetTransaction(gomock.Any(), int64(6)).Return(&transaction.Transaction{
		ID:    6,
		Items: []transaction.Item{{ProductID: 3, Quantity: 1, PriceAtSale: decimal.RequireFromString("2.5")}},
	}, nil)

	dir := filepath.Join(t.TempDir(), "receipts")

	paths, err := svc.ExportReceipts(context.Background(), list, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, "transaction_5.csv", filepath.Base(paths[0]))
	assert.Equal(t, "transaction_6.csv", filepath.Base(paths[1]))

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "product_id,quantity,price_at_sale\n1,2,9.99\n", string(content))

	content, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "product_id,quantity,price_at_sale\n3,1,2.5\n", string(content))
}

func TestService_ExportReceipts_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().GetTransaction(gomock.Any(), int64(9)).Return(nil, transaction.ErrNotFound)

	_, err := svc.ExportReceipts(context.Background(), []*transaction.Transaction{{ID: 9}}, t.TempDir())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ExportReceipts_FailureRemovesWritten(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().GetTransaction(gomock.Any(), int64(1)).Return(&transaction.Transaction{
		ID:    1,
		Items: []transaction.Item{{ProductID: 1, Quantity: 1, PriceAtSale: decimal.RequireFromString("1")}},
	}, nil)
	repo.EXPECT().GetTransaction(gomock.Any(), int64(2)).Return(nil, errors.New("connection reset"))

	dir := t.TempDir()

	paths, err := svc.ExportReceipts(context.Background(), []*transaction.Transaction{{ID: 1}, {ID: 2}}, dir)
	require.Error(t, err)
	assert.Nil(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteListExport(t *testing.T) {
	dir := t.TempDir()

	path, err := transaction.WriteListExport([]*transaction.Transaction{
		{ID: 1, Timestamp: "2024-01-01 10:00:00", TotalAmount: decimal.RequireFromString("3.5")},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, transaction.ListExportFile), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "transaction_id,timestamp,total_amount\n1,\"2024-01-01 10:00:00\",3.5\n", string(content))
}

func TestWriteReceipt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := transaction.WriteReceipt(&transaction.Transaction{
		ID:    42,
		Items: []transaction.Item{{ProductID: 7, Quantity: 1, PriceAtSale: decimal.RequireFromString("1.25")}},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "transaction_42.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "product_id,quantity,price_at_sale\n7,1,1.25\n", string(content))
}
