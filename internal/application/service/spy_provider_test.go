package service

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/infrastructure/memory"
	"github.com/sangkips/kasir-api/pkg/pagination"
)

// spyProvider wraps the in-memory store, counts calls per operation and
// fails operations on demand.
type spyProvider struct {
	store *memory.Store

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	// failAfter lets the first n calls of an operation through before failing.
	failAfter map[string]int
}

func newSpyProvider() *spyProvider {
	return &spyProvider{
		store:     memory.NewStore(),
		calls:     make(map[string]int),
		fail:      make(map[string]error),
		failAfter: make(map[string]int),
	}
}

func (p *spyProvider) failOn(op string, err error, after int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail[op] = err
	p.failAfter[op] = after
}

func (p *spyProvider) hit(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	if err, ok := p.fail[op]; ok && p.calls[op] > p.failAfter[op] {
		return err
	}
	return nil
}

func (p *spyProvider) count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *spyProvider) writes() int {
	return p.count("products.create") + p.count("products.update") + p.count("products.decrement") +
		p.count("receipts.create") + p.count("receipts.items") +
		p.count("invoices.next") + p.count("drifts.record")
}

func (p *spyProvider) Mode() repository.ProviderMode { return p.store.Mode() }
func (p *spyProvider) Products() repository.ProductRepository { return spyProducts{p} }
func (p *spyProvider) Receipts() repository.ReceiptRepository { return spyReceipts{p} }
func (p *spyProvider) Invoices() repository.InvoiceNumberGenerator { return spyInvoices{p} }
func (p *spyProvider) Reconciliation() repository.ReconciliationLog { return spyDrifts{p} }

type spyProducts struct{ p *spyProvider }

func (s spyProducts) List(ctx context.Context) ([]pos.Product, error) {
	if err := s.p.hit("products.list"); err != nil {
		return nil, err
	}
	return s.p.store.Products().List(ctx)
}

func (s spyProducts) Create(ctx context.Context, product pos.NewProduct) (*pos.Product, error) {
	if err := s.p.hit("products.create"); err != nil {
		return nil, err
	}
	return s.p.store.Products().Create(ctx, product)
}

func (s spyProducts) Update(ctx context.Context, id string, patch pos.ProductPatch) error {
	if err := s.p.hit("products.update"); err != nil {
		return err
	}
	return s.p.store.Products().Update(ctx, id, patch)
}

func (s spyProducts) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if err := s.p.hit("products.decrement"); err != nil {
		return 0, err
	}
	return s.p.store.Products().DecrementStock(ctx, id, quantity)
}

type spyReceipts struct{ p *spyProvider }

func (s spyReceipts) Create(ctx context.Context, record pos.ReceiptRecord) (string, time.Time, error) {
	if err := s.p.hit("receipts.create"); err != nil {
		return "", time.Time{}, err
	}
	return s.p.store.Receipts().Create(ctx, record)
}

func (s spyReceipts) CreateItems(ctx context.Context, receiptID string, lines []pos.ReceiptLine) error {
	if err := s.p.hit("receipts.items"); err != nil {
		return err
	}
	return s.p.store.Receipts().CreateItems(ctx, receiptID, lines)
}

func (s spyReceipts) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.Receipt, int64, error) {
	return s.p.store.Receipts().List(ctx, params)
}

func (s spyReceipts) Get(ctx context.Context, id string) (*pos.Receipt, error) {
	return s.p.store.Receipts().Get(ctx, id)
}

type spyInvoices struct{ p *spyProvider }

func (s spyInvoices) Next(ctx context.Context, manual bool) (string, error) {
	if err := s.p.hit("invoices.next"); err != nil {
		return "", err
	}
	return s.p.store.Invoices().Next(ctx, manual)
}

type spyDrifts struct{ p *spyProvider }

func (s spyDrifts) Record(ctx context.Context, drifts []pos.StockDrift) error {
	if err := s.p.hit("drifts.record"); err != nil {
		return err
	}
	return s.p.store.Reconciliation().Record(ctx, drifts)
}

func (s spyDrifts) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.StockDrift, int64, error) {
	return s.p.store.Reconciliation().List(ctx, params)
}
