package pos

import "github.com/shopspring/decimal"

// Product is a catalog entry as the point of sale sees it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Stock       int             `json:"stock"`
	Barcode     *string         `json:"barcode,omitempty"`
	Category    *string         `json:"category,omitempty"`
	IsPhotocopy bool            `json:"is_photocopy"`
}

// NewProduct is a product that has not been stored yet.
type NewProduct struct {
	Name        string
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	Stock       int
	Barcode     *string
	Category    *string
	IsPhotocopy bool
}

// WithID returns the stored form of n.
func (n NewProduct) WithID(id string) Product {
	return Product{
		ID:          id,
		Name:        n.Name,
		CostPrice:   n.CostPrice,
		SellPrice:   n.SellPrice,
		Stock:       n.Stock,
		Barcode:     n.Barcode,
		Category:    n.Category,
		IsPhotocopy: n.IsPhotocopy,
	}
}

// ProductPatch carries a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	CostPrice   *decimal.Decimal
	SellPrice   *decimal.Decimal
	Stock       *int
	Barcode     *string
	Category    *string
	IsPhotocopy *bool
}

// StockPatch is the patch used to set a product's stock level.
func StockPatch(stock int) ProductPatch {
	return ProductPatch{Stock: &stock}
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.CostPrice == nil && p.SellPrice == nil && p.Stock == nil &&
		p.Barcode == nil && p.Category == nil && p.IsPhotocopy == nil
}

// Apply returns a copy of product with the patch applied.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.CostPrice != nil {
		product.CostPrice = *p.CostPrice
	}
	if p.SellPrice != nil {
		product.SellPrice = *p.SellPrice
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Barcode != nil {
		product.Barcode = p.Barcode
	}
	if p.Category != nil {
		product.Category = p.Category
	}
	if p.IsPhotocopy != nil {
		product.IsPhotocopy = *p.IsPhotocopy
	}
	return product
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.Barcode != nil {
		b := *p.Barcode
		p.Barcode = &b
	}
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}
