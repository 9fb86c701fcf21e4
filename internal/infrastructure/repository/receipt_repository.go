package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db      *gorm.DB
	ownerID uuid.UUID
}

// NewReceiptRepository returns the sales history of one owner.
func NewReceiptRepository(db *gorm.DB, ownerID uuid.UUID) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db, ownerID: ownerID}
}

func (r *receiptRepository) Create(ctx context.Context, record pos.ReceiptRecord) (string, time.Time, error) {
	if r.ownerID == uuid.Nil {
		return "", time.Time{}, errors.New("receipt owner is required")
	}
	row := entity.Receipt{
		UserID:        r.ownerID,
		ReceiptNumber: record.Number,
		Subtotal:      record.Totals.Subtotal,
		Discount:      record.Totals.Discount,
		Total:         record.Totals.Total,
		Profit:        record.Totals.Profit,
		PaymentMethod: record.PaymentMethod,
		IsManual:      record.Manual,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", time.Time{}, err
	}
	return row.ID.String(), row.CreatedAt, nil
}

func (r *receiptRepository) CreateItems(ctx context.Context, receiptID string, lines []pos.ReceiptLine) error {
	rid, err := uuid.Parse(receiptID)
	if err != nil {
		return domainRepo.ErrNotFound
	}
	var owned int64
	if err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Scopes(ownedBy(r.ownerID)).
		Where("id = ?", rid).
		Count(&owned).Error; err != nil {
		return err
	}
	if owned == 0 {
		return domainRepo.ErrNotFound
	}
	if len(lines) == 0 {
		return nil
	}

	items := make([]entity.ReceiptItem, 0, len(lines))
	for i, line := range lines {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return fmt.Errorf("line %d: invalid product id %q: %w", i, line.ProductID, err)
		}
		items = append(items, entity.ReceiptItem{
			ReceiptID:   rid,
			Line:        i,
			ProductID:   pid,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			SellPrice:   line.SellPrice,
			CostPrice:   line.CostPrice,
			FinalPrice:  line.FinalPrice,
		})
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *receiptRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.Receipt, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	var total int64
	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).Scopes(ownedBy(r.ownerID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []entity.Receipt
	err := query.
		Preload("Items", itemsInOrder).
		Scopes(paginate(params.Offset(), params.PerPage)).
		Order("created_at DESC").Order("receipt_number DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	receipts := make([]pos.Receipt, 0, len(rows))
	for i := range rows {
		receipts = append(receipts, *toPOSReceipt(&rows[i]))
	}
	return receipts, total, nil
}

func (r *receiptRepository) Get(ctx context.Context, id string) (*pos.Receipt, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	var row entity.Receipt
	err = r.db.WithContext(ctx).
		Scopes(ownedBy(r.ownerID)).
		Preload("Items", itemsInOrder).
		First(&row, "id = ?", rid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toPOSReceipt(&row), nil
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("line ASC")
}
