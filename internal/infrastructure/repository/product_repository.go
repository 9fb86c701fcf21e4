package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db      *gorm.DB
	ownerID uuid.UUID
}

// NewProductRepository returns the catalog of one owner.
func NewProductRepository(db *gorm.DB, ownerID uuid.UUID) domainRepo.ProductRepository {
	return &productRepository{db: db, ownerID: ownerID}
}

func (r *productRepository) List(ctx context.Context) ([]pos.Product, error) {
	var rows []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(r.ownerID)).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	products := make([]pos.Product, 0, len(rows))
	for i := range rows {
		products = append(products, toPOSProduct(&rows[i]))
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product pos.NewProduct) (*pos.Product, error) {
	row := entity.Product{
		UserID:      r.ownerID,
		Name:        product.Name,
		CostPrice:   product.CostPrice,
		SellPrice:   product.SellPrice,
		Stock:       product.Stock,
		Barcode:     product.Barcode,
		Category:    product.Category,
		IsPhotocopy: product.IsPhotocopy,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	created := toPOSProduct(&row)
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, id string, patch pos.ProductPatch) error {
	cols := productColumns(patch)
	if len(cols) == 0 {
		return nil
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return domainRepo.ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Scopes(ownedBy(r.ownerID)).
		Where("id = ?", pid).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return 0, domainRepo.ErrNotFound
	}
	var stock int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Product{}).
			Scopes(ownedBy(r.ownerID)).
			Where("id = ?", pid).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrNotFound
		}
		var levels []int
		if err := tx.Model(&entity.Product{}).Where("id = ?", pid).Pluck("stock", &levels).Error; err != nil {
			return err
		}
		if len(levels) == 0 {
			return domainRepo.ErrNotFound
		}
		stock = levels[0]
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}
