package pos_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsExample(t *testing.T) {
	t.Parallel()

	items := []pos.CartItem{{
		Product: pos.Product{
			ID:        "product-a",
			SellPrice: decimal.NewFromInt(10000),
			CostPrice: decimal.NewFromInt(6000),
		},
		Quantity: 2,
	}}

	totals := pos.ComputeTotals(items, decimal.Zero)

	assert.True(t, decimal.NewFromInt(20000).Equal(totals.Subtotal))
	assert.True(t, decimal.NewFromInt(20000).Equal(totals.Total))
	assert.True(t, decimal.NewFromInt(8000).Equal(totals.Profit))
}

func TestComputeTotalsUsesOverride(t *testing.T) {
	t.Parallel()

	items := []pos.CartItem{{
		Product: pos.Product{
			ID:        "product-a",
			SellPrice: decimal.NewFromInt(10000),
			CostPrice: decimal.NewFromInt(6000),
		},
		Quantity:   3,
		FinalPrice: price(9000),
	}}

	totals := pos.ComputeTotals(items, decimal.NewFromInt(1000))

	assert.True(t, decimal.NewFromInt(27000).Equal(totals.Subtotal))
	assert.True(t, decimal.NewFromInt(26000).Equal(totals.Total))
	assert.True(t, decimal.NewFromInt(9000).Equal(totals.Profit))
}

func TestComputeTotalsDiscountAboveSubtotalGoesNegative(t *testing.T) {
	t.Parallel()

	items := []pos.CartItem{{
		Product:  pos.Product{ID: "x", SellPrice: decimal.NewFromInt(5000)},
		Quantity: 1,
	}}

	totals := pos.ComputeTotals(items, decimal.NewFromInt(7500))

	assert.True(t, decimal.NewFromInt(-2500).Equal(totals.Total))
}

func TestComputeTotalsProperties(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		n := gofakeit.IntRange(0, 8)
		items := make([]pos.CartItem, 0, n)
		wantSubtotal := decimal.Zero
		wantProfit := decimal.Zero
		for j := 0; j < n; j++ {
			item := pos.CartItem{Product: randomProduct(), Quantity: gofakeit.IntRange(1, 10)}
			if gofakeit.Bool() {
				item.FinalPrice = price(int64(gofakeit.IntRange(1, 30000)))
			}
			eff := item.Product.SellPrice
			if item.FinalPrice != nil {
				eff = *item.FinalPrice
			}
			q := decimal.NewFromInt(int64(item.Quantity))
			wantSubtotal = wantSubtotal.Add(eff.Mul(q))
			wantProfit = wantProfit.Add(eff.Sub(item.Product.CostPrice).Mul(q))
			items = append(items, item)
		}
		discount := decimal.NewFromInt(int64(gofakeit.IntRange(0, 50000)))

		totals := pos.ComputeTotals(items, discount)

		require.True(t, wantSubtotal.Equal(totals.Subtotal), "subtotal")
		require.True(t, wantProfit.Equal(totals.Profit), "profit")
		require.True(t, totals.Subtotal.Sub(discount).Equal(totals.Total), "total")
	}
}

func TestLinesForSnapshotsEffectivePrice(t *testing.T) {
	t.Parallel()

	p := randomProduct()
	items := []pos.CartItem{
		{Product: p, Quantity: 2, FinalPrice: price(1234)},
		{Product: randomProduct(), Quantity: 1},
	}

	lines := pos.LinesFor(items)

	require.Len(t, lines, 2)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, p.Name, lines[0].ProductName)
	assert.True(t, decimal.NewFromInt(1234).Equal(lines[0].FinalPrice))
	assert.True(t, p.SellPrice.Equal(lines[0].SellPrice))
	assert.True(t, items[1].Product.SellPrice.Equal(lines[1].FinalPrice))
}

func TestReceiptFromLinesRoundTrip(t *testing.T) {
	t.Parallel()

	items := []pos.CartItem{{Product: randomProduct(), Quantity: 3}}
	totals := pos.ComputeTotals(items, decimal.Zero)
	rec := pos.ReceiptRecord{Number: "INV-20260101-0001", Totals: totals}
	createdAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	got := pos.ReceiptFromLines("r-1", createdAt, rec, pos.LinesFor(items))

	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, rec.Number, got.Number)
	assert.Equal(t, createdAt, got.CreatedAt)
	require.Len(t, got.Items, 1)
	assert.Equal(t, items[0].Product.ID, got.Items[0].Product.ID)
	assert.True(t, items[0].LineTotal().Equal(got.Items[0].LineTotal()))
	if diff := cmp.Diff(totals.Subtotal.String(), got.Subtotal.String()); diff != "" {
		t.Fatalf("subtotal mismatch (-want +got):\n%s", diff)
	}
}

func TestInvoicePrefixes(t *testing.T) {
	t.Parallel()

	var empty pos.InvoicePrefixes
	assert.Equal(t, "INV", empty.For(false))
	assert.Equal(t, "MNL", empty.For(true))

	custom := pos.InvoicePrefixes{Auto: "A", Manual: "M"}
	assert.Equal(t, "A", custom.For(false))
	assert.Equal(t, "M", custom.For(true))

	day := pos.InvoiceDay(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "INV-20260309-0042", pos.FormatInvoiceNumber("INV", day, 42))
}

func TestProductPatchApply(t *testing.T) {
	t.Parallel()

	p := randomProduct()
	assert.True(t, pos.ProductPatch{}.IsEmpty())

	patch := pos.StockPatch(7)
	assert.False(t, patch.IsEmpty())

	got := patch.Apply(p)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.SellPrice.Equal(got.SellPrice))
}
