// Package client consumes the storefront API from Go programs.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/junaidrashid-git/storefront/catalog"
	"github.com/junaidrashid-git/storefront/models"
)

const (
	PageSize  = catalog.DefaultLimit
	staleTime = time.Minute
)

// Filters select a listing. The zero value lists every product, newest first.
type Filters struct {
	Category string
	SortBy   string
	Order    string
	Search   string
}

func (f Filters) query(cursor string) url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("category", f.Category)
	set("sortBy", f.SortBy)
	set("order", f.Order)
	set("search", f.Search)
	set("cursor", cursor)
	q.Set("limit", strconv.Itoa(PageSize))
	return q
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

type listing struct {
	products  []models.Product
	cursor    *string
	hasMore   bool
	total     int64
	loaded    bool
	fetchedAt time.Time
	pages     int
}

// ProductFeed pages through GET /api/products as a consumer scrolls,
// merging pages into one sequence per filter set. Listings fetched within
// the last minute are reused when their filters are selected again.
type ProductFeed struct {
	base *url.URL
	http *http.Client
	now  func() time.Time

	mu       sync.Mutex
	filters  Filters
	listings map[Filters]*listing
}

func NewProductFeed(baseURL string, hc *http.Client) (*ProductFeed, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &ProductFeed{
		base:     base,
		http:     hc,
		now:      time.Now,
		listings: map[Filters]*listing{},
	}, nil
}

// Reset switches to a new filter set. A fresh listing for those filters is
// kept; a stale one is discarded.
func (f *ProductFeed) Reset(filters Filters) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = filters
	if l, ok := f.listings[filters]; ok && f.now().Sub(l.fetchedAt) > staleTime {
		delete(f.listings, filters)
	}
}

// Prime installs an already fetched first page, such as one rendered
// server side, for the current filters.
func (f *ProductFeed) Prime(page catalog.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings[f.filters] = &listing{
		products:  append([]models.Product(nil), page.Products...),
		cursor:    page.NextCursor,
		hasMore:   page.HasMore,
		total:     page.Total,
		loaded:    true,
		fetchedAt: f.now(),
		pages:     1,
	}
}

// Next fetches the following page and returns the products it added.
// It returns nothing once the listing is exhausted.
func (f *ProductFeed) Next(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	filters := f.filters
	l := f.listings[filters]
	if l == nil {
		l = &listing{}
		f.listings[filters] = l
	}
	if l.loaded && !l.hasMore {
		f.mu.Unlock()
		return nil, nil
	}
	var cursor string
	if l.cursor != nil {
		cursor = *l.cursor
	}
	seen := l.pages
	f.mu.Unlock()

	page, err := f.fetch(ctx, filters.query(cursor))
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Drop the page if the listing was reset or advanced meanwhile.
	if f.listings[filters] != l || l.pages != seen {
		return nil, nil
	}
	l.products = append(l.products, page.Products...)
	l.cursor = page.NextCursor
	l.hasMore = page.HasMore && page.NextCursor != nil
	l.total = page.Total
	l.loaded = true
	l.fetchedAt = f.now()
	l.pages++
	return page.Products, nil
}

// LoadAll keeps paging until the listing is exhausted.
func (f *ProductFeed) LoadAll(ctx context.Context) ([]models.Product, error) {
	for f.HasMore() {
		if _, err := f.Next(ctx); err != nil {
			return nil, err
		}
	}
	return f.Products(), nil
}

// Products is every product loaded so far for the current filters.
func (f *ProductFeed) Products() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.listings[f.filters]
	if l == nil {
		return nil
	}
	return append([]models.Product(nil), l.products...)
}

// HasMore reports whether another page may exist. It is true before the
// first fetch.
func (f *ProductFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.listings[f.filters]
	return l == nil || !l.loaded || l.hasMore
}

func (f *ProductFeed) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l := f.listings[f.filters]; l != nil {
		return l.total
	}
	return 0
}

func (f *ProductFeed) fetch(ctx context.Context, q url.Values) (*catalog.Page, error) {
	u := f.base.JoinPath("api", "products")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	var page catalog.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode products page: %w", err)
	}
	return &page, nil
}
