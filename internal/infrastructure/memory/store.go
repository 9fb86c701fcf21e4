// Package memory is the in-process data provider used by anonymous
// sessions. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/pagination"
)

type storedReceipt struct {
	id        string
	createdAt time.Time
	record    pos.ReceiptRecord
	lines     []pos.ReceiptLine
}

// Store holds one session's products, receipts, invoice counters and drifts.
type Store struct {
	prefixes pos.InvoicePrefixes
	now      func() time.Time

	mu       sync.RWMutex
	products map[string]pos.Product
	receipts []*storedReceipt
	byID     map[string]*storedReceipt
	counters map[string]int64
	drifts   []pos.StockDrift
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPrefixes sets the invoice prefixes.
func WithPrefixes(p pos.InvoicePrefixes) Option {
	return func(s *Store) { s.prefixes = p }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		prefixes: pos.DefaultInvoicePrefixes,
		now:      time.Now,
		products: make(map[string]pos.Product),
		byID:     make(map[string]*storedReceipt),
		counters: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Mode() repository.ProviderMode { return repository.ModeLocal }
func (s *Store) Products() repository.ProductRepository { return productStore{s} }
func (s *Store) Receipts() repository.ReceiptRepository { return receiptStore{s} }
func (s *Store) Invoices() repository.InvoiceNumberGenerator { return invoiceCounter{s} }
func (s *Store) Reconciliation() repository.ReconciliationLog { return driftLog{s} }

// --- products ---

type productStore struct{ s *Store }

func (p productStore) List(ctx context.Context) ([]pos.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	out := make([]pos.Product, 0, len(p.s.products))
	for _, product := range p.s.products {
		product.Barcode = copyString(product.Barcode)
		product.Category = copyString(product.Category)
		out = append(out, product)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (p productStore) Create(ctx context.Context, product pos.NewProduct) (*pos.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	product.Barcode = copyString(product.Barcode)
	product.Category = copyString(product.Category)
	stored := product.WithID(uuid.NewString())

	p.s.mu.Lock()
	p.s.products[stored.ID] = stored
	p.s.mu.Unlock()

	out := stored
	out.Barcode = copyString(stored.Barcode)
	out.Category = copyString(stored.Category)
	return &out, nil
}

func (p productStore) Update(ctx context.Context, id string, patch pos.ProductPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	current, ok := p.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	patch.Barcode = copyString(patch.Barcode)
	patch.Category = copyString(patch.Category)
	p.s.products[id] = patch.Apply(current)
	return nil
}

func (p productStore) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	current, ok := p.s.products[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	current.Stock -= quantity
	p.s.products[id] = current
	return current.Stock, nil
}

// --- receipts ---

type receiptStore struct{ s *Store }

func (r receiptStore) Create(ctx context.Context, record pos.ReceiptRecord) (string, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return "", time.Time{}, err
	}
	record.PaymentMethod = copyString(record.PaymentMethod)
	sr := &storedReceipt{id: uuid.NewString(), createdAt: r.s.now(), record: record}

	r.s.mu.Lock()
	r.s.receipts = append(r.s.receipts, sr)
	r.s.byID[sr.id] = sr
	r.s.mu.Unlock()
	return sr.id, sr.createdAt, nil
}

func (r receiptStore) CreateItems(ctx context.Context, receiptID string, lines []pos.ReceiptLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sr, ok := r.s.byID[receiptID]
	if !ok {
		return repository.ErrNotFound
	}
	sr.lines = append(sr.lines, lines...)
	return nil
}

func (r receiptStore) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.Receipt, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ordered := make([]*storedReceipt, len(r.s.receipts))
	copy(ordered, r.s.receipts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].createdAt.Equal(ordered[j].createdAt) {
			return ordered[i].record.Number > ordered[j].record.Number
		}
		return ordered[i].createdAt.After(ordered[j].createdAt)
	})

	start, end := params.Window(len(ordered))
	out := make([]pos.Receipt, 0, end-start)
	for _, sr := range ordered[start:end] {
		out = append(out, *sr.toReceipt())
	}
	return out, int64(len(ordered)), nil
}

func (r receiptStore) Get(ctx context.Context, id string) (*pos.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sr, ok := r.s.byID[id]
	if !ok {
		return nil, nil
	}
	return sr.toReceipt(), nil
}

func (sr *storedReceipt) toReceipt() *pos.Receipt {
	rec := sr.record
	rec.PaymentMethod = copyString(rec.PaymentMethod)
	return pos.ReceiptFromLines(sr.id, sr.createdAt, rec, sr.lines)
}

// --- invoice numbers ---

type invoiceCounter struct{ s *Store }

func (c invoiceCounter) Next(ctx context.Context, manual bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prefix := c.s.prefixes.For(manual)
	day := pos.InvoiceDay(c.s.now())
	key := strings.Join([]string{prefix, day}, ":")

	c.s.mu.Lock()
	c.s.counters[key]++
	seq := c.s.counters[key]
	c.s.mu.Unlock()

	return pos.FormatInvoiceNumber(prefix, day, seq), nil
}

// --- reconciliation ---

type driftLog struct{ s *Store }

func (d driftLog) Record(ctx context.Context, drifts []pos.StockDrift) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := d.s.now()
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for _, drift := range drifts {
		if drift.CreatedAt.IsZero() {
			drift.CreatedAt = now
		}
		d.s.drifts = append(d.s.drifts, drift)
	}
	return nil
}

func (d driftLog) List(ctx context.Context, params *pagination.PaginationParams) ([]pos.StockDrift, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	d.s.mu.RLock()
	defer d.s.mu.RUnlock()
	n := len(d.s.drifts)
	start, end := params.Window(n)
	out := make([]pos.StockDrift, 0, end-start)
	// newest first
	for i := n - 1 - start; i >= n-end; i-- {
		out = append(out, d.s.drifts[i])
	}
	return out, int64(n), nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
