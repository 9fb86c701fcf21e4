package request

import (
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest adds a product to the cart. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID  string           `json:"product_id" binding:"required"`
	Quantity   *int             `json:"quantity" binding:"omitempty,min=1"`
	FinalPrice *decimal.Decimal `json:"final_price" binding:"omitempty,dgte=0"`
}

func (r *AddCartItemRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// UpdateCartItemRequest sets the quantity of a cart line. Zero or less removes it.
type UpdateCartItemRequest struct {
	Quantity   int              `json:"quantity"`
	FinalPrice *decimal.Decimal `json:"final_price" binding:"omitempty,dgte=0"`
}

// CheckoutRequest commits the cart
type CheckoutRequest struct {
	PaymentMethod *string         `json:"payment_method" binding:"omitempty,max=50"`
	Discount      decimal.Decimal `json:"discount" binding:"dgte=0"`
	Print         bool            `json:"print"`
}

// ManualReceiptItem is one hand-entered line
type ManualReceiptItem struct {
	ProductID  string           `json:"product_id" binding:"required"`
	Quantity   int              `json:"quantity" binding:"required,min=1"`
	FinalPrice *decimal.Decimal `json:"final_price" binding:"omitempty,dgte=0"`
}

// ManualReceiptRequest records a sale made without the cart
type ManualReceiptRequest struct {
	Items    []ManualReceiptItem `json:"items" binding:"required,min=1,dive"`
	Discount decimal.Decimal     `json:"discount" binding:"dgte=0"`
}

// ToCartItems resolves the lines against the catalog. It returns the id of
// the first product that cannot be found.
func (r *ManualReceiptRequest) ToCartItems(lookup func(id string) (pos.Product, bool)) ([]pos.CartItem, string) {
	items := make([]pos.CartItem, 0, len(r.Items))
	for _, line := range r.Items {
		product, ok := lookup(line.ProductID)
		if !ok {
			return nil, line.ProductID
		}
		items = append(items, pos.CartItem{Product: product, Quantity: line.Quantity, FinalPrice: line.FinalPrice})
	}
	return items, ""
}
