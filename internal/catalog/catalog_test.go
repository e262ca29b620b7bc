package catalog

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/cybershop/internal/domain/product"
)

func TestDefault_ListAndCategories(t *testing.T) {
	c := Default()
	ctx := context.Background()

	products, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "peripherals", "displays", "furniture"}, categories)

	// Every product belongs to one of the fixed categories.
	labels := make(map[string]bool, len(categories))
	for _, cat := range categories {
		labels[cat] = true
	}
	for _, p := range products {
		assert.True(t, labels[p.Category], "unknown category %q on product %d", p.Category, p.ID)
	}
}

func TestGetByID(t *testing.T) {
	c := Default()

	p, err := c.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Neon Gaming Headset", p.Name)
	assert.Equal(t, int64(8990), p.Price)
	assert.True(t, p.Featured)

	_, err = c.GetByID(context.Background(), 404)
	assert.True(t, errors.Is(err, product.ErrNotFound))
}

func TestGetByIDs_SkipsUnknown(t *testing.T) {
	c := Default()

	products, err := c.GetByIDs(context.Background(), []int64{3, 404, 1})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(3), products[0].ID)
	assert.Equal(t, int64(1), products[1].ID)
}

func TestListByCategory(t *testing.T) {
	c := Default()

	audio, err := c.ListByCategory(context.Background(), "audio")
	require.NoError(t, err)
	require.Len(t, audio, 2)
	assert.Equal(t, "Neon Gaming Headset", audio[0].Name)
	assert.Equal(t, "Stream Microphone", audio[1].Name)

	none, err := c.ListByCategory(context.Background(), "groceries")
	require.NoError(t, err)
	assert.Empty(t, none)
}
