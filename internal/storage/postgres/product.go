package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/cybershop/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, price, category, image, featured`

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return collectProducts(rows)
}

// ListByCategory returns the products with the given category, ordered by ID.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("listing products by category %q: %w", category, err)
	}
	return collectProducts(rows)
}

// GetByID returns a single product by its identifier. It returns
// product.ErrNotFound when no matching product exists.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image, &p.Featured)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns the products matching ids in a single query. Unknown ids
// are skipped, not errors.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return collectProducts(rows)
}

// Categories returns the distinct category labels in alphabetical order.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}
	return categories, nil
}

func collectProducts(rows pgx.Rows) ([]product.Product, error) {
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Product, error) {
		var p product.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Image, &p.Featured)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning products: %w", err)
	}
	return products, nil
}
