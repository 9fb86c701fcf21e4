package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newProduct(name string, sell, cost int64, stock int) pos.NewProduct {
	return pos.NewProduct{
		Name:      name,
		SellPrice: decimal.NewFromInt(sell),
		CostPrice: decimal.NewFromInt(cost),
		Stock:     stock,
	}
}

func TestStoreIsLocal(t *testing.T) {
	var p repository.DataProvider = NewStore()
	assert.Equal(t, repository.ModeLocal, p.Mode())
}

func TestProductsListedByName(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()

	for _, name := range []string{"Teh", "Air Mineral", "Kopi"} {
		_, err := products.Create(ctx, newProduct(name, 5000, 3000, 10))
		require.NoError(t, err)
	}

	list, err := products.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
		assert.NotEmpty(t, p.ID)
	}
	assert.Equal(t, []string{"Air Mineral", "Kopi", "Teh"}, names)
}

func TestPartialUpdateLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()
	category := "Minuman"
	np := newProduct("Kopi", 8000, 5000, 12)
	np.Category = &category

	created, err := products.Create(ctx, np)
	require.NoError(t, err)

	require.NoError(t, products.Update(ctx, created.ID, pos.StockPatch(7)))

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	want := *created
	want.Stock = 7
	if diff := cmp.Diff(want, list[0]); diff != "" {
		t.Fatalf("product mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	err := NewStore().Products().Update(context.Background(), "missing", pos.StockPatch(1))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDecrementStockConcurrent(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()
	created, err := products.Create(ctx, newProduct("Pulpen", 3000, 2000, 200))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 190; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := products.DecrementStock(ctx, created.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	left, err := products.DecrementStock(ctx, created.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, -5, left, "stock is not clamped")

	_, err = products.DecrementStock(ctx, "missing", 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedProductsAreCopies(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()
	barcode := "899100"
	np := newProduct("Roti", 4000, 2500, 3)
	np.Barcode = &barcode
	created, err := products.Create(ctx, np)
	require.NoError(t, err)

	*created.Barcode = "changed"
	barcode = "changed too"

	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "899100", *list[0].Barcode)
}

func TestInvoiceSequencesPerPrefixAndDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return now }))
	inv := store.Invoices()

	n1, err := inv.Next(ctx, false)
	require.NoError(t, err)
	n2, err := inv.Next(ctx, false)
	require.NoError(t, err)
	m1, err := inv.Next(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260118-0001", n1)
	assert.Equal(t, "INV-20260118-0002", n2)
	assert.Equal(t, "MNL-20260118-0001", m1)

	now = now.Add(24 * time.Hour)
	n3, err := inv.Next(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260119-0001", n3)
}

func TestReceiptsRoundTripNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC)
	now := base
	store := NewStore(WithClock(func() time.Time { return now }))
	receipts := store.Receipts()

	var ids []string
	for i := 0; i < 3; i++ {
		now = base.Add(time.Duration(i) * time.Minute)
		id, createdAt, err := receipts.Create(ctx, pos.ReceiptRecord{
			Number: pos.FormatInvoiceNumber("INV", "20260118", int64(i+1)),
			Totals: pos.Totals{Subtotal: decimal.NewFromInt(int64(1000 * (i + 1)))},
		})
		require.NoError(t, err)
		assert.Equal(t, now, createdAt)
		require.NoError(t, receipts.CreateItems(ctx, id, []pos.ReceiptLine{{
			ProductID:   gofakeit.UUID(),
			ProductName: gofakeit.ProductName(),
			Quantity:    i + 1,
			SellPrice:   decimal.NewFromInt(1000),
			FinalPrice:  decimal.NewFromInt(1000),
		}}))
		ids = append(ids, id)
	}

	list, total, err := receipts.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)

	got, err := receipts.Get(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].Quantity)

	missing, err := receipts.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateItemsForUnknownReceipt(t *testing.T) {
	err := NewStore().Receipts().CreateItems(context.Background(), "nope", nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDriftLogNewestFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 18, 9, 0, 0, 0, time.UTC)
	log := NewStore(WithClock(fixedClock(now))).Reconciliation()

	require.NoError(t, log.Record(ctx, []pos.StockDrift{
		{ReceiptID: "r1", ProductID: "a", Quantity: 1},
		{ReceiptID: "r1", ProductID: "b", Quantity: 2},
	}))

	list, total, err := log.List(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, now, list[0].CreatedAt)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore().Products().List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
