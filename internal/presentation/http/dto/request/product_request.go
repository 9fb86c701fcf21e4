package request

import (
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	CostPrice   decimal.Decimal `json:"cost_price" binding:"dgte=0"`
	SellPrice   decimal.Decimal `json:"sell_price" binding:"dgte=0"`
	Stock       int             `json:"stock" binding:"min=0"`
	Barcode     *string         `json:"barcode" binding:"omitempty,max=100"`
	Category    *string         `json:"category" binding:"omitempty,max=100"`
	IsPhotocopy bool            `json:"is_photocopy"`
}

func (r *CreateProductRequest) ToNewProduct() pos.NewProduct {
	return pos.NewProduct{
		Name:        r.Name,
		CostPrice:   r.CostPrice,
		SellPrice:   r.SellPrice,
		Stock:       r.Stock,
		Barcode:     r.Barcode,
		Category:    r.Category,
		IsPhotocopy: r.IsPhotocopy,
	}
}

// UpdateProductRequest is a partial update; omitted fields are left unchanged
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	CostPrice   *decimal.Decimal `json:"cost_price" binding:"omitempty,dgte=0"`
	SellPrice   *decimal.Decimal `json:"sell_price" binding:"omitempty,dgte=0"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=100"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	IsPhotocopy *bool            `json:"is_photocopy"`
}

func (r *UpdateProductRequest) ToPatch() pos.ProductPatch {
	return pos.ProductPatch{
		Name:        r.Name,
		CostPrice:   r.CostPrice,
		SellPrice:   r.SellPrice,
		Stock:       r.Stock,
		Barcode:     r.Barcode,
		Category:    r.Category,
		IsPhotocopy: r.IsPhotocopy,
	}
}
