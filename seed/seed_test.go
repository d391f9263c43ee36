package seed

import (
	"context"
	"testing"

	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Len(t, c.Categories, 6)
	assert.Len(t, c.Products, 8)
}

func TestParseRejectsUnknownCategory(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  - {name: Beauty, slug: beauty}
products:
  - {sku: X-1, title: Lamp, category: lighting, price: 3}
`))
	assert.ErrorContains(t, err, `unknown category "lighting"`)

	_, err = Parse([]byte("products: [oops"))
	assert.Error(t, err)
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	categories := repository.NewCategories(db)
	products := repository.NewProducts(db)
	s := New(categories, products, zap.NewNop())

	c, err := Default()
	require.NoError(t, err)

	for range 2 {
		res, err := s.Apply(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, Result{Categories: 6, Products: 8}, res)
	}

	all, err := products.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)

	apple, err := products.FindBySKU(ctx, "GRO-BRD-APP-005")
	require.NoError(t, err)
	assert.Equal(t, "In Stock", apple.AvailabilityStatus)
	assert.Equal(t, apple.Images[0], apple.Thumbnail)
	assert.Equal(t, 9.73, apple.Dimensions.Depth)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}
