package catalog_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/catalog"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	products := []models.Product{
		{Title: "iPhone 9", Brand: "Apple", Category: "smartphones", Price: 549, Rating: 4.69, Description: "An apple mobile"},
		{Title: "Galaxy S8", Brand: "Samsung", Category: "smartphones", Price: 499, Rating: 4.09, Description: "Samsung flagship"},
		{Title: "OPPO F19", Brand: "OPPO", Category: "smartphones", Price: 280, Rating: 4.3, Description: "Slim phone"},
		{Title: "Huawei P30", Brand: "Huawei", Category: "smartphones", Price: 499, Rating: 4.09, Description: "Triple camera"},
		{Title: "Realme XT", Brand: "Realme", Category: "smartphones", Price: 199, Rating: 4.5, Description: "Budget phone"},
		{Title: "MacBook Pro", Brand: "Apple", Category: "laptops", Price: 1749, Rating: 4.57, Description: "Laptop with an Apple chip"},
		{Title: "Essence Mascara", Brand: "Essence", Category: "beauty", Price: 9.99, Rating: 2.56, Description: "Phone-sized makeup"},
	}
	for _, p := range products {
		testutil.CreateProduct(t, db, p)
	}
}

func titles(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func collect(t *testing.T, f *catalog.Fetcher, params catalog.Params) []string {
	t.Helper()
	var all []string
	for i := 0; i < 20; i++ {
		page, err := f.Fetch(context.Background(), params)
		require.NoError(t, err)
		all = append(all, titles(page.Products)...)
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			return all
		}
		require.NotNil(t, page.NextCursor)
		params.Cursor = *page.NextCursor
	}
	t.Fatalf("pagination did not terminate")
	return nil
}

func TestFetchSmartphonesByPriceAscending(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	params := catalog.Params{Category: "smartphones", SortBy: "price", Order: "asc", Limit: 2}
	first, err := f.Fetch(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, []string{"Realme XT", "OPPO F19"}, titles(first.Products))
	assert.True(t, first.HasMore)
	assert.EqualValues(t, 5, first.Total)
	require.NotNil(t, first.NextCursor)

	params.Cursor = *first.NextCursor
	second, err := f.Fetch(context.Background(), params)
	require.NoError(t, err)

	// Galaxy S8 and Huawei P30 share a price; id order breaks the tie.
	assert.Equal(t, []string{"Galaxy S8", "Huawei P30"}, titles(second.Products))
	assert.NotContains(t, titles(second.Products), "Realme XT")
	assert.NotContains(t, titles(second.Products), "OPPO F19")
}

func TestKeysetPagesConcatenateToFullSet(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	cases := []catalog.Params{
		{},
		{Category: "all"},
		{Category: "smartphones"},
		{SortBy: "price"},
		{SortBy: "price", Order: "desc"},
		{SortBy: "rating", Order: "desc"},
		{Category: "smartphones", SortBy: "rating"},
	}
	for _, base := range cases {
		full := base
		full.Limit = catalog.MaxLimit
		page, err := f.Fetch(context.Background(), full)
		require.NoError(t, err)
		want := titles(page.Products)

		for _, limit := range []int{1, 2, 3} {
			paged := base
			paged.Limit = limit
			got := collect(t, f, paged)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("params %+v limit %d: pages differ from full set (-want +got):\n%s", base, limit, diff)
			}
		}
	}
}

func TestDefaultOrderIsNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	page, err := f.Fetch(context.Background(), catalog.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Essence Mascara", "MacBook Pro"}, titles(page.Products))
	assert.EqualValues(t, 7, page.Total)
}

func TestFirstPageDefaultLimit(t *testing.T) {
	db := testutil.NewDB(t)
	for i := 0; i < catalog.FirstPageLimit+5; i++ {
		testutil.CreateProduct(t, db, models.Product{Title: "Item", Category: "misc", Price: 1})
	}
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	first, err := f.Fetch(context.Background(), catalog.Params{})
	require.NoError(t, err)
	assert.Len(t, first.Products, catalog.FirstPageLimit)
	require.NotNil(t, first.NextCursor)

	next, err := f.Fetch(context.Background(), catalog.Params{Cursor: *first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, next.Products, 5)
	assert.False(t, next.HasMore)
}

func TestSearchWeightsTitleAboveDescription(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	page, err := f.Fetch(context.Background(), catalog.Params{Search: "apple"})
	require.NoError(t, err)
	got := titles(page.Products)
	require.Len(t, got, 2)
	// MacBook Pro matches brand and description, iPhone 9 brand and description too;
	// neither title matches so the newer one comes first.
	assert.Equal(t, []string{"MacBook Pro", "iPhone 9"}, got)

	page, err = f.Fetch(context.Background(), catalog.Params{Search: "PHONE"})
	require.NoError(t, err)
	got = titles(page.Products)
	require.NotEmpty(t, got)
	assert.Equal(t, "iPhone 9", got[0])
	assert.EqualValues(t, 4, page.Total)
}

func TestSearchOffsetPagination(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	params := catalog.Params{Search: "phone", Category: "smartphones", SortBy: "price", Limit: 1}
	first, err := f.Fetch(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, "1", *first.NextCursor)
	assert.EqualValues(t, 3, first.Total)

	got := collect(t, f, params)
	assert.Equal(t, []string{"Realme XT", "OPPO F19", "iPhone 9"}, got)
}

func TestSearchEscapesWildcards(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	page, err := f.Fetch(context.Background(), catalog.Params{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.False(t, page.HasMore)
}

func TestFetchRejectsInvalidParams(t *testing.T) {
	db := testutil.NewDB(t)
	seedCatalog(t, db)
	f := catalog.NewFetcher(db, catalog.LikeSearcher{})

	cases := map[string]catalog.Params{
		"unknown sort":     {SortBy: "title"},
		"unknown order":    {SortBy: "price", Order: "sideways"},
		"negative limit":   {Limit: -1},
		"unknown cursor":   {Cursor: "does-not-exist"},
		"non-numeric page": {Search: "phone", Cursor: "abc"},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), params)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
}

func TestNewSearcher(t *testing.T) {
	s, err := catalog.NewSearcher("trigram")
	require.NoError(t, err)
	assert.IsType(t, catalog.TrigramSearcher{}, s)

	s, err = catalog.NewSearcher("like")
	require.NoError(t, err)
	assert.IsType(t, catalog.LikeSearcher{}, s)

	_, err = catalog.NewSearcher("elastic")
	assert.Error(t, err)
}
