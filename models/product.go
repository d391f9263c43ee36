package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	Title                string     `gorm:"not null" json:"title"`
	Description          string     `gorm:"type:text" json:"description"`
	Category             string     `gorm:"index;not null" json:"category"` // Category slug, not a foreign key
	Brand                string     `json:"brand,omitempty"`
	SKU                  string     `gorm:"column:sku;uniqueIndex" json:"sku"`
	Price                float64    `gorm:"not null;index" json:"price"`
	DiscountPercentage   float64    `json:"discountPercentage"`
	Rating               float64    `gorm:"index" json:"rating"`
	Stock                int        `json:"stock"`
	AvailabilityStatus   string     `json:"availabilityStatus"`
	Weight               float64    `json:"weight"`
	Dimensions           Dimensions `gorm:"embedded;embeddedPrefix:dimension_" json:"dimensions"`
	WarrantyInformation  string     `json:"warrantyInformation"`
	ShippingInformation  string     `json:"shippingInformation"`
	ReturnPolicy         string     `json:"returnPolicy"`
	MinimumOrderQuantity int        `gorm:"default:1" json:"minimumOrderQuantity"`
	Tags                 []string   `gorm:"serializer:json" json:"tags"`
	Images               []string   `gorm:"serializer:json" json:"images"`
	Thumbnail            string     `json:"thumbnail"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// BeforeCreate assigns a time-ordered id, so ordering by id follows insertion order.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	p.ID = id.String()
	return nil
}

// DiscountedPrice applies DiscountPercentage to Price.
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}
