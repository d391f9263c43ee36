package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/catalog"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCatalogServer serves the listing endpoint from a real fetcher over n
// products, half of them in "even".
func newCatalogServer(t *testing.T, n int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	db := testutil.NewDB(t)
	for i := 0; i < n; i++ {
		category := "odd"
		if i%2 == 0 {
			category = "even"
		}
		testutil.CreateProduct(t, db, models.Product{
			Title:    fmt.Sprintf("Product %02d", i),
			Category: category,
			Price:    float64(i + 1),
		})
	}
	searcher, err := catalog.NewSearcher("like")
	require.NoError(t, err)
	fetcher := catalog.NewFetcher(db, searcher)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		page, err := fetcher.Fetch(r.Context(), catalog.Params{
			Category: q.Get("category"),
			SortBy:   q.Get("sortBy"),
			Order:    q.Get("order"),
			Search:   q.Get("search"),
			Cursor:   q.Get("cursor"),
			Limit:    limit,
		})
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(apperr.Status(err))
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFeedMergesPages(t *testing.T) {
	srv, calls := newCatalogServer(t, 65)
	feed, err := NewProductFeed(srv.URL, srv.Client())
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, feed.HasMore())
	first, err := feed.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, first, PageSize)
	assert.Equal(t, int64(65), feed.Total())

	all, err := feed.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 65)
	assert.False(t, feed.HasMore())
	assert.Equal(t, int32(3), calls.Load())

	assert.Equal(t, "Product 64", all[0].Title)
	assert.Equal(t, "Product 00", all[64].Title)
	seen := map[string]bool{}
	for _, p := range all {
		assert.False(t, seen[p.ID], "duplicate %s", p.Title)
		seen[p.ID] = true
	}

	more, err := feed.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, more)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFeedResetKeepsFreshListings(t *testing.T) {
	srv, calls := newCatalogServer(t, 10)
	feed, err := NewProductFeed(srv.URL, srv.Client())
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	feed.now = func() time.Time { return now }
	ctx := context.Background()

	feed.Reset(Filters{Category: "even", SortBy: "price", Order: "asc"})
	evens, err := feed.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, evens, 5)
	assert.Equal(t, 1.0, evens[0].Price)

	feed.Reset(Filters{Category: "odd"})
	odds, err := feed.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, odds, 5)
	assert.Equal(t, int32(2), calls.Load())

	feed.Reset(Filters{Category: "even", SortBy: "price", Order: "asc"})
	assert.Len(t, feed.Products(), 5)
	assert.False(t, feed.HasMore())

	now = now.Add(2 * time.Minute)
	feed.Reset(Filters{Category: "odd"})
	assert.Empty(t, feed.Products())
	_, err = feed.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFeedPrimeSkipsFirstFetch(t *testing.T) {
	srv, calls := newCatalogServer(t, 40)
	feed, err := NewProductFeed(srv.URL, srv.Client())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := feed.fetch(ctx, Filters{}.query(""))
	require.NoError(t, err)
	feed.Prime(*first)

	all, err := feed.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 40)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFeedReportsAPIErrors(t *testing.T) {
	srv, _ := newCatalogServer(t, 1)
	feed, err := NewProductFeed(srv.URL, srv.Client())
	require.NoError(t, err)

	feed.Reset(Filters{SortBy: "popularity"})
	_, err = feed.Next(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
