package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Products struct {
	db *gorm.DB
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

func (r *Products) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *Products) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "sku = ?", sku).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// All returns the whole catalog in insertion order.
func (r *Products) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Products) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// Save writes every column of p.
func (r *Products) Save(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

// UpsertBySKU inserts p or overwrites the product with the same sku.
func (r *Products) UpsertBySKU(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns(productColumns),
	}).Create(p).Error)
}

// Delete removes a product together with its reviews and cart lines.
func (r *Products) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var productColumns = []string{
	"title", "description", "category", "brand", "price", "discount_percentage",
	"rating", "stock", "availability_status", "weight",
	"dimension_width", "dimension_height", "dimension_depth",
	"warranty_information", "shipping_information", "return_policy",
	"minimum_order_quantity", "tags", "images", "thumbnail", "updated_at",
}
