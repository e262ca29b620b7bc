package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Price is in minor
// currency units; all monetary arithmetic stays in integers.
type Product struct {
	ID       int64
	Name     string
	Price    int64
	Category string
	Image    string
	Featured bool
}

// Repository defines read operations for the product catalog. The catalog is
// read-only input: nothing in the storefront mutates it.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}
