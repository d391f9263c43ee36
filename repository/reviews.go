package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
)

type Reviews struct {
	db *gorm.DB
}

func NewReviews(db *gorm.DB) *Reviews {
	return &Reviews{db: db}
}

// ListByProduct returns the product's reviews, latest first.
func (r *Reviews) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *Reviews) FindByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *Reviews) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

func (r *Reviews) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
