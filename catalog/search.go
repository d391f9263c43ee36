package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Searcher narrows a product query to rows matching a free-text term and
// scores them. Title matches weigh 3, brand 2, description 1.
type Searcher interface {
	Filter(tx *gorm.DB, term string) *gorm.DB
	Relevance(term string) clause.Expr
}

// NewSearcher picks the backend for a configured search mode.
func NewSearcher(mode string) (Searcher, error) {
	switch mode {
	case "trigram":
		return TrigramSearcher{}, nil
	case "like", "":
		return LikeSearcher{}, nil
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

// TrigramSearcher uses Postgres pg_trgm word similarity, so close
// misspellings still match.
type TrigramSearcher struct{}

func (TrigramSearcher) Filter(tx *gorm.DB, term string) *gorm.DB {
	return tx.Where("(? <% title OR ? <% COALESCE(brand, '') OR ? <% description)", term, term, term)
}

func (TrigramSearcher) Relevance(term string) clause.Expr {
	return clause.Expr{
		SQL:  "word_similarity(?, title) * 3 + word_similarity(?, COALESCE(brand, '')) * 2 + word_similarity(?, description)",
		Vars: []any{term, term, term},
	}
}

// LikeSearcher is a portable case-insensitive substring match.
type LikeSearcher struct{}

func (LikeSearcher) Filter(tx *gorm.DB, term string) *gorm.DB {
	pattern := likePattern(term)
	return tx.Where(
		`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(brand, '')) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`,
		pattern, pattern, pattern,
	)
}

func (LikeSearcher) Relevance(term string) clause.Expr {
	pattern := likePattern(term)
	return clause.Expr{
		SQL: `(CASE WHEN LOWER(title) LIKE ? ESCAPE '\' THEN 3 ELSE 0 END` +
			` + CASE WHEN LOWER(COALESCE(brand, '')) LIKE ? ESCAPE '\' THEN 2 ELSE 0 END` +
			` + CASE WHEN LOWER(description) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END)`,
		Vars: []any{pattern, pattern, pattern},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
