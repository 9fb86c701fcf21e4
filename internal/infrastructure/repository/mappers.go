package repository

import (
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
)

func toPOSProduct(p *entity.Product) pos.Product {
	return pos.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		CostPrice:   p.CostPrice,
		SellPrice:   p.SellPrice,
		Stock:       p.Stock,
		Barcode:     p.Barcode,
		Category:    p.Category,
		IsPhotocopy: p.IsPhotocopy,
	}
}

// productColumns translates the set fields of patch into storage columns.
func productColumns(patch pos.ProductPatch) map[string]any {
	cols := make(map[string]any)
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.CostPrice != nil {
		cols["cost_price"] = *patch.CostPrice
	}
	if patch.SellPrice != nil {
		cols["sell_price"] = *patch.SellPrice
	}
	if patch.Stock != nil {
		cols["stock"] = *patch.Stock
	}
	if patch.Barcode != nil {
		cols["barcode"] = *patch.Barcode
	}
	if patch.Category != nil {
		cols["category"] = *patch.Category
	}
	if patch.IsPhotocopy != nil {
		cols["is_photocopy"] = *patch.IsPhotocopy
	}
	return cols
}

func toPOSReceipt(r *entity.Receipt) *pos.Receipt {
	rec := pos.ReceiptRecord{
		Number: r.ReceiptNumber,
		Totals: pos.Totals{
			Subtotal: r.Subtotal,
			Discount: r.Discount,
			Total:    r.Total,
			Profit:   r.Profit,
		},
		PaymentMethod: r.PaymentMethod,
		Manual:        r.IsManual,
	}
	lines := make([]pos.ReceiptLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, pos.ReceiptLine{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			SellPrice:   item.SellPrice,
			CostPrice:   item.CostPrice,
			FinalPrice:  item.FinalPrice,
		})
	}
	return pos.ReceiptFromLines(r.ID.String(), r.CreatedAt, rec, lines)
}

func toPOSDrift(d *entity.StockDrift) pos.StockDrift {
	return pos.StockDrift{
		ReceiptID:     d.ReceiptID.String(),
		ReceiptNumber: d.ReceiptNumber,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		ExpectedStock: d.ExpectedStock,
		Reason:        d.Reason,
		CreatedAt:     d.CreatedAt,
	}
}
