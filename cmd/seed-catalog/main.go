// Command seed-catalog loads the product catalog into PostgreSQL.
//
// Products are read from a JSON file (plain or gzip-compressed). When no file
// is given, the built-in catalog is used.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/cybershop/internal/catalog"
	"github.com/xenking/cybershop/internal/domain/product"
	"github.com/xenking/cybershop/internal/storage/postgres"
)

type productJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Featured bool   `json:"featured"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "", "path to products JSON file (.json or .json.gz); built-in catalog when empty")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products, err := loadProducts(ctx, productsFile)
	if err != nil {
		return errors.Wrap(err, "load products")
	}

	return seedProducts(ctx, pool, products)
}

// loadProducts reads products from the given file, transparently
// decompressing gzip input. An empty path returns the built-in catalog.
func loadProducts(ctx context.Context, path string) ([]product.Product, error) {
	if path == "" {
		slog.Info("using built-in catalog")
		return catalog.Default().List(ctx)
	}

	slog.Info("reading products file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open products file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var raw []productJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}

	products := make([]product.Product, len(raw))
	for i, p := range raw {
		products[i] = product.Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Image:    p.Image,
			Featured: p.Featured,
		}
	}
	return products, nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []product.Product) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (id, name, price, category, image, featured)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				category = EXCLUDED.category,
				image = EXCLUDED.image,
				featured = EXCLUDED.featured`,
			p.ID, p.Name, p.Price, p.Category, p.Image, p.Featured)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "upsert products")
	}

	for _, p := range products {
		slog.Info("upserted product", slog.Int64("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}
