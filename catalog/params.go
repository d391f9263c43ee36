// Package catalog pages through products. Plain listings use a keyset
// cursor (the last product id); searches use a numeric offset cursor.
package catalog

import (
	"strconv"
	"strings"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/models"
)

const (
	DefaultLimit      = 30
	FirstPageLimit    = 50
	MaxLimit          = 100
	AllCategories     = "all"
	SortPrice         = "price"
	SortRating        = "rating"
	OrderAsc          = "asc"
	OrderDesc         = "desc"
	invalidParameters = "Invalid query parameters"
)

// Params are the listing filters as received from the query string.
type Params struct {
	Category string `form:"category"`
	SortBy   string `form:"sortBy"`
	Order    string `form:"order"`
	Search   string `form:"search"`
	Cursor   string `form:"cursor"`
	Limit    int    `form:"limit"`
}

// Page is one slice of the listing. NextCursor is nil once exhausted.
type Page struct {
	Products   []models.Product `json:"products"`
	NextCursor *string          `json:"nextCursor"`
	HasMore    bool             `json:"hasMore"`
	Total      int64            `json:"total"`
}

// normalize trims and defaults p, rejecting values the fetcher cannot honour.
func (p Params) normalize() (Params, error) {
	p.Category = strings.TrimSpace(p.Category)
	if strings.EqualFold(p.Category, AllCategories) {
		p.Category = ""
	}
	p.Search = strings.TrimSpace(p.Search)
	p.Cursor = strings.TrimSpace(p.Cursor)
	p.SortBy = strings.ToLower(strings.TrimSpace(p.SortBy))
	p.Order = strings.ToLower(strings.TrimSpace(p.Order))

	fields := map[string][]string{}
	switch p.SortBy {
	case "", SortPrice, SortRating:
	default:
		fields["sortBy"] = append(fields["sortBy"], "sortBy must be one of price, rating")
	}
	switch p.Order {
	case "":
		if p.SortBy != "" {
			p.Order = OrderAsc
		}
	case OrderAsc, OrderDesc:
	default:
		fields["order"] = append(fields["order"], "order must be asc or desc")
	}

	switch {
	case p.Limit < 0:
		fields["limit"] = append(fields["limit"], "limit must be positive")
	case p.Limit == 0 && p.Cursor == "":
		p.Limit = FirstPageLimit
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}

	if len(fields) > 0 {
		return p, apperr.Validation(invalidParameters, fields)
	}
	return p, nil
}

func parseOffset(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, apperr.Validation(invalidParameters, map[string][]string{
			"cursor": {"cursor must be a non-negative offset when searching"},
		})
	}
	return n, nil
}
