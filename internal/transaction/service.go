package transaction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ListExportFile is the file name used for the filtered list export.
const ListExportFile = "transactions_export.csv"

const receiptFetchLimit = 4

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	ListTransactions(ctx context.Context) ([]*Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every transaction, newest first as ordered by the server.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// Get returns a transaction with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ReceiptFileName is the file name of a single transaction's receipt export.
func ReceiptFileName(id int64) string {
	return fmt.Sprintf("transaction_%d.csv", id)
}

// WriteReceipt writes the receipt of tx to dir and returns the file path.
func WriteReceipt(tx *Transaction, dir string) (string, error) {
	return writeFile(dir, ReceiptFileName(tx.ID), ExportDetailCSV(tx))
}

// WriteListExport writes txs to dir as the filtered list export and returns
// the file path.
func WriteListExport(txs []*Transaction, dir string) (string, error) {
	return writeFile(dir, ListExportFile, ListCSV(txs))
}

// ExportReceipts fetches the items of every transaction in txs and writes one
// receipt file per transaction to dir. The returned paths follow the order of
// txs. The first failure cancels the remaining fetches, and receipts already
// written by a failed export are removed.
func (s *Service) ExportReceipts(ctx context.Context, txs []*Transaction, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, len(txs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(receiptFetchLimit)

	for i, tx := range txs {
		g.Go(func() error {
			detail, err := s.repo.GetTransaction(ctx, tx.ID)
			if err != nil {
				return fmt.Errorf("fetching transaction %d: %w", tx.ID, err)
			}

			path, err := WriteReceipt(detail, dir)
			if err != nil {
				return err
			}

			paths[i] = path

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		removeAll(paths)
		return nil, err
	}

	return paths, nil
}

// removeAll deletes the receipts written before an export failed.
func removeAll(paths []string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return path, nil
}
