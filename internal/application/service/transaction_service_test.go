package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionFixture(t *testing.T) (*spyProvider, *CatalogService, *TransactionService) {
	t.Helper()
	provider := newSpyProvider()
	catalog := NewCatalogService(provider.Products(), logger.Nop())
	return provider, catalog, NewTransactionService(provider, catalog, nil, logger.Nop())
}

func seedProduct(t *testing.T, catalog *CatalogService, p pos.NewProduct) pos.Product {
	t.Helper()
	created, err := catalog.Create(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, catalog.Load(context.Background()))
	return *created
}

func TestCommitComputesTotalsAndProfit(t *testing.T) {
	ctx := context.Background()
	provider, catalog, svc := newTransactionFixture(t)
	productA := seedProduct(t, catalog, pos.NewProduct{
		Name:      "Product A",
		SellPrice: decimal.NewFromInt(10000),
		CostPrice: decimal.NewFromInt(6000),
		Stock:     10,
	})

	items := []pos.CartItem{{Product: productA, Quantity: 2}}
	receipt, err := svc.Commit(ctx, items, CommitOptions{Discount: decimal.Zero})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.True(t, receipt.Subtotal.Equal(decimal.NewFromInt(20000)), receipt.Subtotal.String())
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(20000)), receipt.Total.String())
	assert.True(t, receipt.Profit.Equal(decimal.NewFromInt(8000)), receipt.Profit.String())
	assert.True(t, strings.HasPrefix(receipt.Number, "INV-"), receipt.Number)
	assert.False(t, receipt.Manual)
	assert.NotEmpty(t, receipt.ID)

	updated, ok := catalog.Product(productA.ID)
	require.True(t, ok)
	assert.Equal(t, 8, updated.Stock)

	stored, err := provider.Receipts().Get(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, receipt.Number, stored.Number)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestCommitEmptyCartWritesNothing(t *testing.T) {
	provider, _, svc := newTransactionFixture(t)

	receipt, err := svc.Commit(context.Background(), nil, CommitOptions{})
	require.NoError(t, err)
	assert.Nil(t, receipt)
	assert.Zero(t, provider.writes())
}

func TestCommitAllowsNegativeTotal(t *testing.T) {
	_, catalog, svc := newTransactionFixture(t)
	p := seedProduct(t, catalog, pos.NewProduct{Name: "Pulpen", SellPrice: decimal.NewFromInt(3000), Stock: 5})

	receipt, err := svc.Commit(context.Background(), []pos.CartItem{{Product: p, Quantity: 1}},
		CommitOptions{Discount: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(-2000)), receipt.Total.String())
}

func TestCommitUsesOverridePriceAndDoesNotClampStock(t *testing.T) {
	_, catalog, svc := newTransactionFixture(t)
	p := seedProduct(t, catalog, pos.NewProduct{
		Name:      "Fotokopi",
		SellPrice: decimal.NewFromInt(500),
		CostPrice: decimal.NewFromInt(200),
		Stock:     1,
	})
	override := decimal.NewFromInt(400)

	receipt, err := svc.Commit(context.Background(),
		[]pos.CartItem{{Product: p, Quantity: 3, FinalPrice: &override}}, CommitOptions{})
	require.NoError(t, err)
	assert.True(t, receipt.Subtotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, receipt.Profit.Equal(decimal.NewFromInt(600)))

	after, _ := catalog.Product(p.ID)
	assert.Equal(t, -2, after.Stock)
}

func TestCommitManualUsesManualSequence(t *testing.T) {
	_, catalog, svc := newTransactionFixture(t)
	p := seedProduct(t, catalog, pos.NewProduct{Name: "Map", SellPrice: decimal.NewFromInt(2000), Stock: 5})
	method := pos.ManualPaymentMethod

	receipt, err := svc.Commit(context.Background(), []pos.CartItem{{Product: p, Quantity: 1}},
		CommitOptions{PaymentMethod: &method, Manual: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.Number, "MNL-"), receipt.Number)
	assert.True(t, strings.HasSuffix(receipt.Number, "-0001"), receipt.Number)
	require.NotNil(t, receipt.PaymentMethod)
	assert.Equal(t, "Tunai", *receipt.PaymentMethod)
	assert.True(t, receipt.Manual)
}

func TestCommitInvoiceFailureMakesNoWrites(t *testing.T) {
	provider, catalog, svc := newTransactionFixture(t)
	p := seedProduct(t, catalog, pos.NewProduct{Name: "Buku", SellPrice: decimal.NewFromInt(7000), Stock: 5})
	provider.failOn("invoices.next", errors.New("sequence unavailable"), 0)

	receipt, err := svc.Commit(context.Background(), []pos.CartItem{{Product: p, Quantity: 1}}, CommitOptions{})
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, apperror.ErrTransactionFailed)
	assert.Zero(t, provider.count("receipts.create"))
	assert.Zero(t, provider.count("products.decrement"))
}

func TestCommitStockFailureRecordsDrift(t *testing.T) {
	ctx := context.Background()
	provider, catalog, svc := newTransactionFixture(t)
	first := seedProduct(t, catalog, pos.NewProduct{Name: "A", SellPrice: decimal.NewFromInt(1000), Stock: 10})
	second := seedProduct(t, catalog, pos.NewProduct{Name: "B", SellPrice: decimal.NewFromInt(2000), Stock: 4})
	third := seedProduct(t, catalog, pos.NewProduct{Name: "C", SellPrice: decimal.NewFromInt(3000), Stock: 7})
	provider.failOn("products.decrement", errors.New("connection reset"), 1)

	items := []pos.CartItem{
		{Product: first, Quantity: 1},
		{Product: second, Quantity: 2},
		{Product: third, Quantity: 3},
	}
	receipt, err := svc.Commit(ctx, items, CommitOptions{})
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.True(t, errors.Is(err, apperror.ErrTransactionFailed))

	drifts, total, err := provider.Reconciliation().List(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	got := map[string]int{}
	for _, d := range drifts {
		got[d.ProductID] = d.ExpectedStock
		assert.NotEmpty(t, d.ReceiptNumber)
		assert.Contains(t, d.Reason, "connection reset")
	}
	assert.Empty(t, cmp.Diff(map[string]int{second.ID: 2, third.ID: 4}, got))

	// receipt and items stay persisted
	stored, _, err := provider.Receipts().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCommitDoesNotMutateInput(t *testing.T) {
	_, catalog, svc := newTransactionFixture(t)
	p := seedProduct(t, catalog, pos.NewProduct{Name: "Kertas", SellPrice: decimal.NewFromInt(45000), Stock: 3})
	items := []pos.CartItem{{Product: p, Quantity: 1}}
	before := pos.CloneItems(items)

	receipt, err := svc.Commit(context.Background(), items, CommitOptions{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, items))

	items[0].Quantity = 99
	assert.Equal(t, 1, receipt.Items[0].Quantity)
}

func TestCommitSubtotalMatchesRandomCarts(t *testing.T) {
	faker := gofakeit.New(7)
	for n := 0; n < 20; n++ {
		_, catalog, svc := newTransactionFixture(t)
		var items []pos.CartItem
		want := decimal.Zero
		lines := faker.IntRange(1, 5)
		for i := 0; i < lines; i++ {
			p := seedProduct(t, catalog, pos.NewProduct{
				Name:      faker.ProductName(),
				SellPrice: decimal.NewFromInt(int64(faker.IntRange(500, 100000))),
				Stock:     faker.IntRange(0, 50),
			})
			qty := faker.IntRange(1, 10)
			items = append(items, pos.CartItem{Product: p, Quantity: qty})
			want = want.Add(p.SellPrice.Mul(decimal.NewFromInt(int64(qty))))
		}

		receipt, err := svc.Commit(context.Background(), items, CommitOptions{})
		require.NoError(t, err)
		assert.True(t, want.Equal(receipt.Subtotal), "want %s got %s", want, receipt.Subtotal)
	}
}
