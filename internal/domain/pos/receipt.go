package pos

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ManualPaymentMethod is recorded on receipts entered by hand.
const ManualPaymentMethod = "Tunai"

// Totals are the monetary figures of a sale.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Profit   decimal.Decimal `json:"profit"`
}

// ComputeTotals sums items using their effective prices. Total is
// subtotal minus discount and is not clamped at zero.
func ComputeTotals(items []CartItem, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	profit := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		profit = profit.Add(item.LineProfit())
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
		Profit:   profit,
	}
}

// Receipt is the immutable record of a completed sale.
type Receipt struct {
	ID            string          `json:"id"`
	Number        string          `json:"receipt_number"`
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Profit        decimal.Decimal `json:"profit"`
	CreatedAt     time.Time       `json:"created_at"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Manual        bool            `json:"is_manual"`
}

// ReceiptRecord is the header row persisted for a sale.
type ReceiptRecord struct {
	Number        string
	Totals        Totals
	PaymentMethod *string
	Manual        bool
}

// ReceiptLine is the price snapshot persisted for one sold item.
type ReceiptLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	SellPrice   decimal.Decimal
	CostPrice   decimal.Decimal
	FinalPrice  decimal.Decimal
}

// LinesFor snapshots the prices of items at the time of sale.
func LinesFor(items []CartItem) []ReceiptLine {
	lines := make([]ReceiptLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, ReceiptLine{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			SellPrice:   item.Product.SellPrice,
			CostPrice:   item.Product.CostPrice,
			FinalPrice:  item.EffectivePrice(),
		})
	}
	return lines
}

// AssembleReceipt builds the receipt returned to callers after a commit.
func AssembleReceipt(id string, createdAt time.Time, rec ReceiptRecord, items []CartItem) *Receipt {
	return &Receipt{
		ID:            id,
		Number:        rec.Number,
		Items:         CloneItems(items),
		Subtotal:      rec.Totals.Subtotal,
		Discount:      rec.Totals.Discount,
		Total:         rec.Totals.Total,
		Profit:        rec.Totals.Profit,
		CreatedAt:     createdAt,
		PaymentMethod: rec.PaymentMethod,
		Manual:        rec.Manual,
	}
}

// ReceiptFromLines rebuilds a stored receipt. Items carry the snapshot
// prices, not the current catalog prices.
func ReceiptFromLines(id string, createdAt time.Time, rec ReceiptRecord, lines []ReceiptLine) *Receipt {
	items := make([]CartItem, 0, len(lines))
	for _, line := range lines {
		final := line.FinalPrice
		items = append(items, CartItem{
			Product: Product{
				ID:        line.ProductID,
				Name:      line.ProductName,
				SellPrice: line.SellPrice,
				CostPrice: line.CostPrice,
			},
			Quantity:   line.Quantity,
			FinalPrice: &final,
		})
	}
	r := AssembleReceipt(id, createdAt, rec, nil)
	r.Items = items
	return r
}

// StockDrift records a stock decrement that did not happen after its
// receipt was already persisted.
type StockDrift struct {
	ReceiptID     string    `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	ExpectedStock int       `json:"expected_stock"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// InvoicePrefixes selects the numbering sequence for a sale.
type InvoicePrefixes struct {
	Auto   string
	Manual string
}

// DefaultInvoicePrefixes are used when no prefixes are configured.
var DefaultInvoicePrefixes = InvoicePrefixes{Auto: "INV", Manual: "MNL"}

// For returns the prefix of the manual or automatic sequence.
func (p InvoicePrefixes) For(manual bool) string {
	if manual {
		if p.Manual == "" {
			return DefaultInvoicePrefixes.Manual
		}
		return p.Manual
	}
	if p.Auto == "" {
		return DefaultInvoicePrefixes.Auto
	}
	return p.Auto
}

// InvoiceDay is the sequence bucket a timestamp falls in.
func InvoiceDay(t time.Time) string {
	return t.UTC().Format("20060102")
}

// FormatInvoiceNumber renders e.g. INV-20260118-0007.
func FormatInvoiceNumber(prefix, day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}
