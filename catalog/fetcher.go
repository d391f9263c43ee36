package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const fetchFailed = "Failed to fetch products"

type Fetcher struct {
	db       *gorm.DB
	searcher Searcher
}

func NewFetcher(db *gorm.DB, searcher Searcher) *Fetcher {
	return &Fetcher{db: db, searcher: searcher}
}

// Fetch returns one page of products for params.
func (f *Fetcher) Fetch(ctx context.Context, params Params) (*Page, error) {
	p, err := params.normalize()
	if err != nil {
		return nil, err
	}

	base := f.db.WithContext(ctx).Model(&models.Product{})
	if p.Category != "" {
		base = base.Where("category = ?", p.Category)
	}

	if p.Search != "" {
		return f.search(base, p)
	}
	return f.keyset(ctx, base, p)
}

// keyset continues strictly after the cursor row in the active order,
// using the id as tiebreaker.
func (f *Fetcher) keyset(ctx context.Context, base *gorm.DB, p Params) (*Page, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(fetchFailed, err)
	}

	query := base.Session(&gorm.Session{})
	desc := p.Order == OrderDesc || p.SortBy == ""

	if p.Cursor != "" {
		var anchor models.Product
		err := f.db.WithContext(ctx).First(&anchor, "id = ?", p.Cursor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation(invalidParameters, map[string][]string{
				"cursor": {"cursor does not reference a product"},
			})
		}
		if err != nil {
			return nil, apperr.Internal(fetchFailed, err)
		}
		query = query.Where(afterCursor(p.SortBy, desc, &anchor))
	}

	var products []models.Product
	err := query.
		Order(orderBy(p.SortBy, desc)).
		Limit(p.Limit + 1).
		Find(&products).Error
	if err != nil {
		return nil, apperr.Internal(fetchFailed, err)
	}

	page := &Page{Total: total}
	if len(products) > p.Limit {
		products = products[:p.Limit]
		page.HasMore = true
		next := products[len(products)-1].ID
		page.NextCursor = &next
	}
	page.Products = products
	return page, nil
}

func (f *Fetcher) search(base *gorm.DB, p Params) (*Page, error) {
	offset, err := parseOffset(p.Cursor)
	if err != nil {
		return nil, err
	}

	filtered := f.searcher.Filter(base, p.Search).Session(&gorm.Session{})

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, apperr.Internal(fetchFailed, err)
	}

	query := filtered
	if p.SortBy != "" {
		query = query.Order(orderBy(p.SortBy, p.Order == OrderDesc))
	} else {
		rel := f.searcher.Relevance(p.Search)
		query = query.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                rel.SQL + " DESC, id DESC",
			Vars:               rel.Vars,
			WithoutParentheses: true,
		}})
	}

	var products []models.Product
	if err := query.Offset(offset).Limit(p.Limit + 1).Find(&products).Error; err != nil {
		return nil, apperr.Internal(fetchFailed, err)
	}

	page := &Page{Total: total}
	if len(products) > p.Limit {
		products = products[:p.Limit]
		page.HasMore = true
		next := strconv.Itoa(offset + p.Limit)
		page.NextCursor = &next
	}
	page.Products = products
	return page, nil
}

func orderBy(sortBy string, desc bool) clause.OrderBy {
	cols := []clause.OrderByColumn{}
	if sortBy != "" {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: desc})
	}
	cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	return clause.OrderBy{Columns: cols}
}

func afterCursor(sortBy string, desc bool, anchor *models.Product) clause.Expr {
	op := ">"
	if desc {
		op = "<"
	}
	if sortBy == "" {
		return clause.Expr{SQL: "id " + op + " ?", Vars: []any{anchor.ID}}
	}

	var value any
	switch sortBy {
	case SortPrice:
		value = anchor.Price
	case SortRating:
		value = anchor.Rating
	}
	return clause.Expr{
		SQL:  "(" + sortBy + " " + op + " ? OR (" + sortBy + " = ? AND id " + op + " ?))",
		Vars: []any{value, value, anchor.ID},
	}
}
