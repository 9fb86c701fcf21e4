package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceSequenceRepository struct {
	db       *gorm.DB
	prefixes pos.InvoicePrefixes
	now      func() time.Time
}

// NewInvoiceSequenceRepository numbers receipts from the invoice_sequences
// table. Sequences are shared by every owner so numbers stay globally unique.
func NewInvoiceSequenceRepository(db *gorm.DB, prefixes pos.InvoicePrefixes) domainRepo.InvoiceNumberGenerator {
	return &invoiceSequenceRepository{db: db, prefixes: prefixes, now: time.Now}
}

func (r *invoiceSequenceRepository) Next(ctx context.Context, manual bool) (string, error) {
	prefix := r.prefixes.For(manual)
	day := pos.InvoiceDay(r.now())

	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := entity.InvoiceSequence{Prefix: prefix, Day: day}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		// The UPDATE takes the row lock, so concurrent callers serialize here.
		res := tx.Model(&entity.InvoiceSequence{}).
			Where("prefix = ? AND day = ?", prefix, day).
			Update("last_value", gorm.Expr("last_value + 1"))
		if res.Error != nil {
			return res.Error
		}
		var current entity.InvoiceSequence
		if err := tx.Where("prefix = ? AND day = ?", prefix, day).First(&current).Error; err != nil {
			return err
		}
		seq = current.LastValue
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return pos.FormatInvoiceNumber(prefix, day, seq), nil
}
