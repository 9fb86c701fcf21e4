package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/metrics"
	"github.com/sangkips/kasir-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Session is one point-of-sale workspace: a cart, a catalog and a
// transaction processor over a single data provider.
type Session struct {
	ID     string
	UserID *uuid.UUID

	Cart         *pos.Cart
	Catalog      *CatalogService
	Transactions *TransactionService

	provider   repository.DataProvider
	log        *logger.Logger
	checkoutMu sync.Mutex
	lastSeen   atomic.Int64
}

func newSession(id string, userID *uuid.UUID, provider repository.DataProvider, m *metrics.POSMetrics, log *logger.Logger) *Session {
	catalog := NewCatalogService(provider.Products(), log)
	return &Session{
		ID:           id,
		UserID:       userID,
		Cart:         pos.NewCart(),
		Catalog:      catalog,
		Transactions: NewTransactionService(provider, catalog, m, log),
		provider:     provider,
		log:          log,
	}
}

// Scope identifies the session owner for idempotency keys and rate limits.
func (s *Session) Scope() string {
	if s.UserID != nil {
		return "user:" + s.UserID.String()
	}
	return "guest:" + s.ID
}

func (s *Session) Mode() repository.ProviderMode {
	return s.provider.Mode()
}

func (s *Session) Provider() repository.DataProvider {
	return s.provider
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// AddToCart adds a cached product to the cart.
func (s *Session) AddToCart(productID string, quantity int, priceOverride *decimal.Decimal) error {
	product, ok := s.Catalog.Product(productID)
	if !ok {
		return apperror.NewNotFoundError("Product")
	}
	s.Cart.Add(product, quantity, priceOverride)
	return nil
}

// Checkout commits the current cart and, only when the commit succeeded,
// removes the committed quantities from it. Items added while the commit
// runs stay in the cart. The catalog is reloaded afterwards on a
// best-effort basis.
func (s *Session) Checkout(ctx context.Context, paymentMethod *string, discount decimal.Decimal) (*pos.Receipt, error) {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	committed := s.Cart.Items()
	receipt, err := s.Transactions.Commit(ctx, committed, CommitOptions{
		PaymentMethod: paymentMethod,
		Discount:      discount,
	})
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, nil
	}
	s.Cart.Subtract(committed)
	s.refreshCatalog(ctx)
	return receipt, nil
}

// RecordManualReceipt stores a hand-entered sale. The cart is left alone.
func (s *Session) RecordManualReceipt(ctx context.Context, items []pos.CartItem, discount decimal.Decimal) (*pos.Receipt, error) {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	method := pos.ManualPaymentMethod
	receipt, err := s.Transactions.Commit(ctx, items, CommitOptions{
		PaymentMethod: &method,
		Discount:      discount,
		Manual:        true,
	})
	if err != nil || receipt == nil {
		return receipt, err
	}
	s.refreshCatalog(ctx)
	return receipt, nil
}

func (s *Session) CreateProduct(ctx context.Context, product pos.NewProduct) (*pos.Product, error) {
	created, err := s.Catalog.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	s.refreshCatalog(ctx)
	return created, nil
}

func (s *Session) UpdateProduct(ctx context.Context, id string, patch pos.ProductPatch) error {
	if err := s.Catalog.Update(ctx, id, patch); err != nil {
		return err
	}
	if !patch.IsEmpty() {
		s.refreshCatalog(ctx)
	}
	return nil
}

// Receipts lists the provider's receipts, newest first.
func (s *Session) Receipts(ctx context.Context, params *pagination.PaginationParams) ([]pos.Receipt, int64, error) {
	return s.provider.Receipts().List(ctx, params)
}

func (s *Session) Receipt(ctx context.Context, id string) (*pos.Receipt, error) {
	receipt, err := s.provider.Receipts().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

func (s *Session) refreshCatalog(ctx context.Context) {
	if err := s.Catalog.Load(ctx); err != nil {
		s.log.Warn(ctx, "catalog refresh failed, serving cached products", err)
	}
}

// ProviderFactory builds the data provider of a new session.
type ProviderFactory interface {
	Local() repository.DataProvider
	Remote(ownerID uuid.UUID) repository.DataProvider
}

// SessionRegistry maps callers to their sessions. Authenticated users share
// one remote session per user id; anonymous callers get a local session
// keyed by their session id.
type SessionRegistry struct {
	factory ProviderFactory
	metrics *metrics.POSMetrics
	log     *logger.Logger
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(factory ProviderFactory, m *metrics.POSMetrics, log *logger.Logger, idle time.Duration) *SessionRegistry {
	return &SessionRegistry{
		factory:  factory,
		metrics:  m,
		log:      log,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Resolve returns the caller's session, creating it on first use. guestID is
// only consulted when userID is nil; an unknown or malformed one starts a
// new guest session.
func (r *SessionRegistry) Resolve(ctx context.Context, userID *uuid.UUID, guestID string) (*Session, error) {
	var key, id string
	if userID != nil {
		if *userID == uuid.Nil {
			return nil, apperror.ErrSessionRequired
		}
		id = userID.String()
		key = "user:" + id
	} else {
		if _, err := uuid.Parse(guestID); err != nil {
			guestID = uuid.NewString()
		}
		id = guestID
		key = "guest:" + id
	}

	if s := r.lookup(key); s != nil {
		return s, nil
	}

	var provider repository.DataProvider
	if userID != nil {
		provider = r.factory.Remote(*userID)
	} else {
		provider = r.factory.Local()
	}
	s := newSession(id, userID, provider, r.metrics, r.log)
	s.touch(r.now())
	if err := s.Catalog.Load(ctx); err != nil {
		r.log.Warn(ctx, "initial catalog load failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[key]; ok {
		existing.touch(r.now())
		return existing, nil
	}
	r.sessions[key] = s
	r.metrics.AddSessions(string(provider.Mode()), 1)
	r.log.From(ctx).Info().Str("session_id", id).Str("provider", string(provider.Mode())).Msg("session started")
	return s, nil
}

func (r *SessionRegistry) lookup(key string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok {
		return nil
	}
	s.touch(r.now())
	return s
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns
// how many were removed. Guest carts and stores go with them.
func (r *SessionRegistry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, key)
			r.metrics.AddSessions(string(s.Mode()), -1)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.From(ctx).Debug().Int("removed", n).Msg("idle sessions swept")
			}
		}
	}
}
