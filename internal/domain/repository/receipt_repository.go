package repository

import (
	"context"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/pkg/pagination"
)

// ReceiptRepository defines the persistence of completed sales
type ReceiptRepository interface {
	// Create stores the header row and returns the generated id and creation time.
	Create(ctx context.Context, record pos.ReceiptRecord) (id string, createdAt time.Time, err error)
	CreateItems(ctx context.Context, receiptID string, lines []pos.ReceiptLine) error
	// List returns receipts newest first.
	List(ctx context.Context, params *pagination.PaginationParams) ([]pos.Receipt, int64, error)
	// Get returns nil, nil when the receipt does not exist.
	Get(ctx context.Context, id string) (*pos.Receipt, error)
}

// InvoiceNumberGenerator hands out unique receipt numbers. Manual and
// automatic sales use separate sequences.
type InvoiceNumberGenerator interface {
	Next(ctx context.Context, manual bool) (string, error)
}

// ReconciliationLog keeps stock drifts for later correction.
type ReconciliationLog interface {
	Record(ctx context.Context, drifts []pos.StockDrift) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]pos.StockDrift, int64, error)
}
