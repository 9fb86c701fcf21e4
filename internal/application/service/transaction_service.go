package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Commit stages, used as the failure metric label.
const (
	stageInvoice = "invoice_number"
	stageReceipt = "receipt"
	stageItems   = "receipt_items"
	stageStock   = "stock"
)

// CommitOptions describe how a sale is paid and numbered.
type CommitOptions struct {
	PaymentMethod *string
	Discount      decimal.Decimal
	Manual        bool
}

// TransactionService turns a cart snapshot into a stored receipt.
type TransactionService struct {
	provider repository.DataProvider
	catalog  *CatalogService
	metrics  *metrics.POSMetrics
	log      *logger.Logger
	now      func() time.Time
}

func NewTransactionService(provider repository.DataProvider, catalog *CatalogService, m *metrics.POSMetrics, log *logger.Logger) *TransactionService {
	return &TransactionService{
		provider: provider,
		catalog:  catalog,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Commit persists a sale of items. An empty snapshot returns (nil, nil)
// without touching the backend. Writes already made are not undone when a
// later step fails; a failed stock decrement is recorded as a StockDrift for
// every line that was not decremented. Commit never mutates a cart.
func (s *TransactionService) Commit(ctx context.Context, items []pos.CartItem, opts CommitOptions) (*pos.Receipt, error) {
	if len(items) == 0 {
		return nil, nil
	}
	started := s.now()
	mode := string(s.provider.Mode())
	items = pos.CloneItems(items)

	totals := pos.ComputeTotals(items, opts.Discount)

	number, err := s.provider.Invoices().Next(ctx, opts.Manual)
	if err != nil {
		return nil, s.fail(ctx, stageInvoice, err)
	}

	record := pos.ReceiptRecord{
		Number:        number,
		Totals:        totals,
		PaymentMethod: opts.PaymentMethod,
		Manual:        opts.Manual,
	}
	receipts := s.provider.Receipts()
	id, createdAt, err := receipts.Create(ctx, record)
	if err != nil {
		return nil, s.fail(ctx, stageReceipt, err)
	}

	if err := receipts.CreateItems(ctx, id, pos.LinesFor(items)); err != nil {
		return nil, s.fail(ctx, stageItems, fmt.Errorf("receipt %s: %w", number, err))
	}

	for i, item := range items {
		if _, err := s.catalog.DecrementStock(ctx, item.Product.ID, item.Quantity); err != nil {
			s.recordDrift(ctx, id, number, items[i:], err)
			return nil, s.fail(ctx, stageStock, fmt.Errorf("receipt %s, product %s: %w", number, item.Product.ID, err))
		}
	}

	s.metrics.IncCommitted(mode, opts.Manual)
	s.metrics.ObserveCommit(mode, s.now().Sub(started))
	s.log.From(ctx).Info().
		Str("receipt_number", number).
		Str("total", totals.Total.String()).
		Int("lines", len(items)).
		Bool("manual", opts.Manual).
		Msg("transaction committed")

	return pos.AssembleReceipt(id, createdAt, record, items), nil
}

func (s *TransactionService) fail(ctx context.Context, stage string, err error) error {
	s.metrics.IncFailed(string(s.provider.Mode()), stage)
	s.log.From(ctx).Error().Err(err).Str("stage", stage).Msg("transaction failed")
	return apperror.Wrap(apperror.ErrTransactionFailed, err)
}

func (s *TransactionService) recordDrift(ctx context.Context, receiptID, number string, pending []pos.CartItem, cause error) {
	now := s.now()
	drifts := make([]pos.StockDrift, 0, len(pending))
	for _, item := range pending {
		current := item.Product.Stock
		if cached, ok := s.catalog.Product(item.Product.ID); ok {
			current = cached.Stock
		}
		drifts = append(drifts, pos.StockDrift{
			ReceiptID:     receiptID,
			ReceiptNumber: number,
			ProductID:     item.Product.ID,
			Quantity:      item.Quantity,
			ExpectedStock: current - item.Quantity,
			Reason:        cause.Error(),
			CreatedAt:     now,
		})
	}
	if err := s.provider.Reconciliation().Record(ctx, drifts); err != nil {
		s.log.From(ctx).Error().Err(err).
			Str("receipt_number", number).
			Int("drifts", len(drifts)).
			Msg("failed to record stock drift")
		return
	}
	s.log.From(ctx).Warn().
		Str("receipt_number", number).
		Int("drifts", len(drifts)).
		Msg("stock drift recorded for reconciliation")
}
