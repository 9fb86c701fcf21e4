package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/pagination"
	"gorm.io/gorm"
)

// ErrReadOnlyLog is returned when recording into the cross-owner report.
var ErrReadOnlyLog = errors.New("reconciliation report is read-only")

type stockDriftRepository struct {
	db      *gorm.DB
	ownerID uuid.UUID
	all     bool
}

// NewStockDriftRepository records and lists the drifts of one owner.
func NewStockDriftRepository(db *gorm.DB, ownerID uuid.UUID) domainRepo.ReconciliationLog {
	return &stockDriftRepository{db: db, ownerID: ownerID}
}

// NewReconciliationReport lists unresolved drifts of every owner, for admins.
func NewReconciliationReport(db *gorm.DB) domainRepo.ReconciliationLog {
	return &stockDriftRepository{db: db, all: true}
}

func (r *stockDriftRepository) Record(ctx context.Context, drifts []pos.StockDrift) error {
	if r.all {
		return ErrReadOnlyLog
	}
	if len(drifts) == 0 {
		return nil
	}
	rows := make([]entity.StockDrift, 0, len(drifts))
	for _, d := range drifts {
		rid, err := uuid.Parse(d.ReceiptID)
		if err != nil {
			return fmt.Errorf("invalid receipt id %q: %w", d.ReceiptID, err)
		}
		rows = append(rows, entity.StockDrift{
			UserID:        r.ownerID,
			ReceiptID:     rid,
			ReceiptNumber: d.ReceiptNumber,
			ProductID:     d.ProductID,
			Quantity:      d.Quantity,
			ExpectedStock: d.ExpectedStock,
			Reason:        d.Reason,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *stockDriftRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.StockDrift, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	query := r.db.WithContext(ctx).Model(&entity.StockDrift{}).Where("resolved_at IS NULL")
	if !r.all {
		query = query.Scopes(ownedBy(r.ownerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entity.StockDrift
	err := query.
		Scopes(paginate(params.Offset(), params.PerPage)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]pos.StockDrift, 0, len(rows))
	for i := range rows {
		out = append(out, toPOSDrift(&rows[i]))
	}
	return out, total, nil
}
