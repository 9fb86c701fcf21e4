package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFactory struct {
	mu      sync.Mutex
	local   int
	remote  map[uuid.UUID]int
	created []*spyProvider
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{remote: make(map[uuid.UUID]int)}
}

func (f *fakeFactory) Local() repository.DataProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.local++
	p := newSpyProvider()
	f.created = append(f.created, p)
	return p
}

func (f *fakeFactory) Remote(ownerID uuid.UUID) repository.DataProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remote[ownerID]++
	p := newSpyProvider()
	f.created = append(f.created, p)
	return remoteSpy{p}
}

type remoteSpy struct{ *spyProvider }

func (remoteSpy) Mode() repository.ProviderMode { return repository.ModeRemote }

func newTestSession(t *testing.T) (*Session, *spyProvider) {
	t.Helper()
	provider := newSpyProvider()
	return newSession(uuid.NewString(), nil, provider, nil, logger.Nop()), provider
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	p, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Roti", SellPrice: decimal.NewFromInt(8000), Stock: 5})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(p.ID, 2, nil))

	receipt, err := s.Checkout(ctx, nil, decimal.Zero)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Zero(t, s.Cart.Len())

	reloaded, ok := s.Catalog.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 3, reloaded.Stock)
}

func TestCheckoutKeepsCartOnFailure(t *testing.T) {
	ctx := context.Background()
	s, provider := newTestSession(t)
	p, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Susu", SellPrice: decimal.NewFromInt(6000), Stock: 5})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(p.ID, 1, nil))
	provider.failOn("receipts.create", errors.New("db down"), 0)

	receipt, err := s.Checkout(ctx, nil, decimal.Zero)
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, 1, s.Cart.Len())
}

func TestCheckoutEmptyCart(t *testing.T) {
	s, provider := newTestSession(t)

	receipt, err := s.Checkout(context.Background(), nil, decimal.Zero)
	require.NoError(t, err)
	assert.Nil(t, receipt)
	assert.Zero(t, provider.writes())
}

func TestManualReceiptLeavesCartAlone(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	p, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Lakban", SellPrice: decimal.NewFromInt(12000), Stock: 9})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(p.ID, 1, nil))

	receipt, err := s.RecordManualReceipt(ctx, []pos.CartItem{{Product: *p, Quantity: 4}}, decimal.Zero)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Manual)
	assert.Equal(t, 1, s.Cart.Len())

	got, err := s.Receipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Number, got.Number)
}

// gatedProvider holds every invoice request until release is closed.
type gatedProvider struct {
	*spyProvider
	entered chan struct{}
	release chan struct{}
}

func (p gatedProvider) Invoices() repository.InvoiceNumberGenerator { return gatedInvoices{p} }

type gatedInvoices struct{ p gatedProvider }

func (g gatedInvoices) Next(ctx context.Context, manual bool) (string, error) {
	g.p.entered <- struct{}{}
	<-g.p.release
	return g.p.spyProvider.Invoices().Next(ctx, manual)
}

func TestCheckoutKeepsItemsAddedDuringCommit(t *testing.T) {
	ctx := context.Background()
	provider := gatedProvider{
		spyProvider: newSpyProvider(),
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	s := newSession(uuid.NewString(), nil, provider, nil, logger.Nop())
	a, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Amplop", SellPrice: decimal.NewFromInt(1000), Stock: 10})
	require.NoError(t, err)
	b, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Binder", SellPrice: decimal.NewFromInt(15000), Stock: 10})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(a.ID, 2, nil))

	type result struct {
		receipt *pos.Receipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		receipt, err := s.Checkout(ctx, nil, decimal.Zero)
		done <- result{receipt, err}
	}()

	<-provider.entered
	require.NoError(t, s.AddToCart(b.ID, 1, nil))
	require.NoError(t, s.AddToCart(a.ID, 1, nil))
	close(provider.release)

	res := <-done
	require.NoError(t, res.err)
	require.NotNil(t, res.receipt)
	require.Len(t, res.receipt.Items, 1)
	assert.Equal(t, 2, res.receipt.Items[0].Quantity)

	items := s.Cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].Product.ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, b.ID, items[1].Product.ID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestConcurrentManualReceiptsDecrementEveryUnit(t *testing.T) {
	ctx := context.Background()
	s, provider := newTestSession(t)
	p, err := s.CreateProduct(ctx, pos.NewProduct{Name: "Kertas HVS", SellPrice: decimal.NewFromInt(500), Stock: 200})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 190; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordManualReceipt(ctx, []pos.CartItem{{Product: *p, Quantity: 1}}, decimal.Zero)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cached, ok := s.Catalog.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 10, cached.Stock)

	stored, err := provider.Products().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stored[0].Stock)
	assert.Equal(t, 190, provider.count("products.decrement"))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.AddToCart("nope", 1, nil)
	require.Error(t, err)
	assert.Zero(t, s.Cart.Len())
}

func TestReceiptNotFound(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Receipt(context.Background(), uuid.NewString())
	require.Error(t, err)
}

func TestRegistryPicksProviderByIdentity(t *testing.T) {
	ctx := context.Background()
	factory := newFakeFactory()
	reg := NewSessionRegistry(factory, nil, logger.Nop(), time.Hour)

	guest, err := reg.Resolve(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, repository.ModeLocal, guest.Mode())
	_, err = uuid.Parse(guest.ID)
	require.NoError(t, err)

	again, err := reg.Resolve(ctx, nil, guest.ID)
	require.NoError(t, err)
	assert.Same(t, guest, again)

	userID := uuid.New()
	user, err := reg.Resolve(ctx, &userID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.ModeRemote, user.Mode())
	assert.Equal(t, "user:"+userID.String(), user.Scope())

	sameUser, err := reg.Resolve(ctx, &userID, "")
	require.NoError(t, err)
	assert.Same(t, user, sameUser)
	assert.Equal(t, 1, factory.remote[userID])
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryRejectsMalformedGuestID(t *testing.T) {
	reg := NewSessionRegistry(newFakeFactory(), nil, logger.Nop(), time.Hour)

	s, err := reg.Resolve(context.Background(), nil, "not-a-uuid")
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", s.ID)
}

func TestRegistryConcurrentResolveSharesSession(t *testing.T) {
	reg := NewSessionRegistry(newFakeFactory(), nil, logger.Nop(), time.Hour)
	userID := uuid.New()

	var wg sync.WaitGroup
	sessions := make([]*Session, 16)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.Resolve(context.Background(), &userID, "")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()
	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
}

func TestRegistrySweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reg := NewSessionRegistry(newFakeFactory(), nil, logger.Nop(), 30*time.Minute)
	reg.now = func() time.Time { return now }

	old, err := reg.Resolve(context.Background(), nil, "")
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = reg.Resolve(context.Background(), nil, "")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	fresh, err := reg.Resolve(context.Background(), nil, old.ID)
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
}
