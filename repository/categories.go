package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Categories struct {
	db *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

func (r *Categories) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Categories) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// UpsertBySlug inserts c or renames the category with the same slug.
func (r *Categories) UpsertBySlug(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(c).Error)
}
