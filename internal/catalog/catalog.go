// Package catalog provides the built-in product catalog: a static, read-only
// implementation of product.Repository used by the storefront session and as
// the default input for the seed tool.
package catalog

import (
	"context"

	"github.com/xenking/cybershop/internal/domain/product"
)

// defaultCategories is the fixed set of category labels, in display order.
var defaultCategories = []string{"audio", "peripherals", "displays", "furniture"}

const imageCDN = "https://cdn.poehali.dev/projects/2817f374-379b-46c0-a7ee-b3109eabbe2f/files/"

var defaultProducts = []product.Product{
	{
		ID:       1,
		Name:     "Neon Gaming Headset",
		Price:    8990,
		Category: "audio",
		Image:    imageCDN + "201e94fa-79b3-4c21-bd83-9970f2ad158d.jpg",
		Featured: true,
	},
	{
		ID:       2,
		Name:     "RGB Mechanical Keyboard",
		Price:    12490,
		Category: "peripherals",
		Image:    imageCDN + "447d92f3-ab39-4e35-bfe1-8cd259bb1db3.jpg",
		Featured: true,
	},
	{
		ID:       3,
		Name:     "Cyber Gaming Mouse",
		Price:    6990,
		Category: "peripherals",
		Image:    imageCDN + "b6975f3b-7d21-4d0b-84cf-e3663a24614f.jpg",
		Featured: true,
	},
	{
		ID:       4,
		Name:     "Pro Gaming Monitor 27\"",
		Price:    24990,
		Category: "displays",
		Image:    imageCDN + "201e94fa-79b3-4c21-bd83-9970f2ad158d.jpg",
	},
	{
		ID:       5,
		Name:     "Stream Microphone",
		Price:    15990,
		Category: "audio",
		Image:    imageCDN + "447d92f3-ab39-4e35-bfe1-8cd259bb1db3.jpg",
	},
	{
		ID:       6,
		Name:     "Gaming Chair Ultra",
		Price:    34990,
		Category: "furniture",
		Image:    imageCDN + "b6975f3b-7d21-4d0b-84cf-e3663a24614f.jpg",
	},
}

// Compile-time check ensuring Catalog satisfies the repository port.
var _ product.Repository = (*Catalog)(nil)

// Catalog is an immutable in-memory product repository.
type Catalog struct {
	products   []product.Product
	categories []string
	byID       map[int64]int
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return New(defaultProducts, defaultCategories)
}

// New builds a Catalog over the given products and category labels. The
// slices are copied; the catalog never mutates or exposes its inputs.
func New(products []product.Product, categories []string) *Catalog {
	c := &Catalog{
		products:   make([]product.Product, len(products)),
		categories: make([]string, len(categories)),
		byID:       make(map[int64]int, len(products)),
	}
	copy(c.products, products)
	copy(c.categories, categories)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// List returns every product in catalog order.
func (c *Catalog) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// ListByCategory returns the products with the given category label, in
// catalog order.
func (c *Catalog) ListByCategory(_ context.Context, category string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns a single product, or product.ErrNotFound.
func (c *Catalog) GetByID(_ context.Context, id int64) (*product.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p := c.products[i]
	return &p, nil
}

// GetByIDs returns the products for the given ids, skipping unknown ones.
func (c *Catalog) GetByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.byID[id]; ok {
			out = append(out, c.products[i])
		}
	}
	return out, nil
}

// Categories returns the fixed category labels.
func (c *Catalog) Categories(_ context.Context) ([]string, error) {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out, nil
}
