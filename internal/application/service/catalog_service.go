package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
)

// CatalogService caches a provider's product list and writes changes
// through to it.
type CatalogService struct {
	products repository.ProductRepository
	log      *logger.Logger

	// writeMu orders stock writes against reloads so a reload never
	// installs a list read before a decrement it races with.
	writeMu sync.Mutex

	mu     sync.RWMutex
	cache  []pos.Product
	index  map[string]int
	loaded bool
}

func NewCatalogService(products repository.ProductRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		log:      log,
		index:    make(map[string]int),
	}
}

// Load replaces the cache with the provider's current list. On failure the
// previous cache is kept.
func (s *CatalogService) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	products, err := s.products.List(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to load products", err)
		return apperror.Wrap(apperror.ErrCatalogLoadFailed, err)
	}

	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	s.mu.Lock()
	s.cache = products
	s.index = index
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded reports whether at least one Load succeeded.
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Products returns a copy of the cached list, ordered by name.
func (s *CatalogService) Products() []pos.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pos.Product, len(s.cache))
	for i, p := range s.cache {
		out[i] = p.Clone()
	}
	return out
}

func (s *CatalogService) Product(id string) (pos.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return pos.Product{}, false
	}
	return s.cache[i].Clone(), true
}

// Create stores a product. The cache is not touched; callers reload.
func (s *CatalogService) Create(ctx context.Context, product pos.NewProduct) (*pos.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.log.Error(ctx, "failed to create product", err)
		return nil, err
	}
	return created, nil
}

// Update writes the set fields of patch. An empty patch does nothing.
func (s *CatalogService) Update(ctx context.Context, id string, patch pos.ProductPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := s.products.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NewNotFoundError("Product")
		}
		s.log.Error(ctx, "failed to update product", err)
		return err
	}
	return nil
}

// DecrementStock subtracts quantity from the stored stock of productID and
// returns the level the provider reports. The result is not clamped.
func (s *CatalogService) DecrementStock(ctx context.Context, productID string, quantity int) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return 0, err
	}
	if next < 0 {
		s.log.From(ctx).Warn().
			Str("product_id", productID).
			Int("stock", next).
			Msg("stock went negative")
	}

	s.mu.Lock()
	if i, ok := s.index[productID]; ok {
		s.cache[i].Stock = next
	}
	s.mu.Unlock()
	return next, nil
}
