package pos_test

import (
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomProduct() pos.Product {
	return pos.Product{
		ID:        gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		CostPrice: decimal.NewFromInt(int64(gofakeit.IntRange(100, 5000))),
		SellPrice: decimal.NewFromInt(int64(gofakeit.IntRange(5000, 20000))),
		Stock:     gofakeit.IntRange(0, 100),
	}
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCartAddMergesDuplicates(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	p := randomProduct()

	cart.Add(p, 2, nil)
	cart.Add(p, 3, nil)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartAddReplacesOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		first     *decimal.Decimal
		second    *decimal.Decimal
		wantFinal *decimal.Decimal
	}{
		{name: "override replaced", first: price(9000), second: price(8000), wantFinal: price(8000)},
		{name: "override cleared when omitted", first: price(9000), second: nil, wantFinal: nil},
		{name: "override set on re-add", first: nil, second: price(7000), wantFinal: price(7000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cart := pos.NewCart()
			p := randomProduct()
			cart.Add(p, 1, tt.first)
			cart.Add(p, 1, tt.second)

			items := cart.Items()
			require.Len(t, items, 1)
			assert.Equal(t, 2, items[0].Quantity)
			if tt.wantFinal == nil {
				assert.Nil(t, items[0].FinalPrice)
				return
			}
			require.NotNil(t, items[0].FinalPrice)
			assert.True(t, tt.wantFinal.Equal(*items[0].FinalPrice))
		})
	}
}

func TestCartAddIgnoresNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	cart.Add(randomProduct(), 0, nil)
	cart.Add(randomProduct(), -3, nil)

	assert.Zero(t, cart.Len())
}

func TestCartSetQuantity(t *testing.T) {
	t.Parallel()

	t.Run("replaces quantity and override", func(t *testing.T) {
		cart := pos.NewCart()
		p := randomProduct()
		cart.Add(p, 4, price(1000))

		cart.SetQuantity(p.ID, 2, nil)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Nil(t, items[0].FinalPrice)
	})

	for _, q := range []int{0, -1} {
		t.Run("non-positive removes", func(t *testing.T) {
			cart := pos.NewCart()
			p := randomProduct()
			other := randomProduct()
			cart.Add(p, 4, nil)
			cart.Add(other, 1, nil)

			cart.SetQuantity(p.ID, q, nil)

			items := cart.Items()
			require.Len(t, items, 1)
			assert.Equal(t, other.ID, items[0].Product.ID)
		})
	}

	t.Run("unknown product is a no-op", func(t *testing.T) {
		cart := pos.NewCart()
		p := randomProduct()
		cart.Add(p, 1, nil)

		cart.SetQuantity("missing", 5, nil)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	a, b := randomProduct(), randomProduct()
	cart.Add(a, 1, nil)
	cart.Add(b, 1, nil)

	cart.Remove("missing")
	assert.Equal(t, 2, cart.Len())

	cart.Remove(a.ID)
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].Product.ID)

	cart.Clear()
	assert.Zero(t, cart.Len())
	assert.Empty(t, cart.Items())
}

func TestCartSubtractKeepsLaterAdditions(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	a, b, c := randomProduct(), randomProduct(), randomProduct()
	cart.Add(a, 2, nil)
	cart.Add(b, 1, nil)
	committed := cart.Items()

	cart.Add(b, 3, nil)
	cart.Add(c, 1, nil)
	cart.Subtract(committed)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].Product.ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, c.ID, items[1].Product.ID)
	assert.Equal(t, 1, items[1].Quantity)

	cart.Subtract(cart.Items())
	assert.Zero(t, cart.Len())
}

func TestCartItemsSnapshotIsDecoupled(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	p := randomProduct()
	cart.Add(p, 1, price(500))

	snapshot := cart.Items()
	*snapshot[0].FinalPrice = decimal.NewFromInt(1)
	snapshot[0].Quantity = 99

	cart.Add(p, 1, price(600))

	require.Len(t, snapshot, 1)
	assert.Equal(t, 99, snapshot[0].Quantity)
	items := cart.Items()
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(600).Equal(*items[0].FinalPrice))
}

func TestCartConcurrentAdds(t *testing.T) {
	t.Parallel()

	cart := pos.NewCart()
	p := randomProduct()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.Add(p, 1, nil)
		}()
	}
	wg.Wait()

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}
