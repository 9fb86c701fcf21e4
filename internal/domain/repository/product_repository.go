package repository

import (
	"context"
	"errors"

	"github.com/sangkips/kasir-api/internal/domain/pos"
)

// ErrNotFound is returned by writes that target a missing record.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the catalog operations of a data provider
type ProductRepository interface {
	// List returns every product owned by the provider, ordered by name.
	List(ctx context.Context) ([]pos.Product, error)
	Create(ctx context.Context, product pos.NewProduct) (*pos.Product, error)
	// Update writes only the fields set in patch. Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id string, patch pos.ProductPatch) error
	// DecrementStock subtracts quantity from the stored stock in a single write
	// and returns the new level. Returns ErrNotFound for unknown ids.
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
}
