// Package seed loads a YAML catalog fixture into the database.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type Category struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type Product struct {
	SKU                  string   `yaml:"sku"`
	Title                string   `yaml:"title"`
	Description          string   `yaml:"description"`
	Category             string   `yaml:"category"`
	Brand                string   `yaml:"brand"`
	Price                float64  `yaml:"price"`
	DiscountPercentage   float64  `yaml:"discountPercentage"`
	Rating               float64  `yaml:"rating"`
	Stock                int      `yaml:"stock"`
	AvailabilityStatus   string   `yaml:"availabilityStatus"`
	Weight               float64  `yaml:"weight"`
	Dimensions           Size     `yaml:"dimensions"`
	WarrantyInformation  string   `yaml:"warrantyInformation"`
	ShippingInformation  string   `yaml:"shippingInformation"`
	ReturnPolicy         string   `yaml:"returnPolicy"`
	MinimumOrderQuantity int      `yaml:"minimumOrderQuantity"`
	Tags                 []string `yaml:"tags"`
	Images               []string `yaml:"images"`
	Thumbnail            string   `yaml:"thumbnail"`
}

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a catalog and checks every product names a declared category.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	slugs := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Slug == "" || cat.Name == "" {
			return nil, fmt.Errorf("category %q: name and slug are required", cat.Slug)
		}
		slugs[cat.Slug] = true
	}
	for _, p := range c.Products {
		if p.SKU == "" || p.Title == "" {
			return nil, fmt.Errorf("product %q: sku and title are required", p.Title)
		}
		if !slugs[p.Category] {
			return nil, fmt.Errorf("product %q: unknown category %q", p.SKU, p.Category)
		}
	}
	return &c, nil
}

type Result struct {
	Categories int
	Products   int
}

// Seeder writes catalogs idempotently: categories by slug, products by sku.
type Seeder struct {
	categories *repository.Categories
	products   *repository.Products
	log        *zap.Logger
}

func New(categories *repository.Categories, products *repository.Products, log *zap.Logger) *Seeder {
	return &Seeder{categories: categories, products: products, log: log}
}

func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	for _, cat := range c.Categories {
		if err := s.categories.UpsertBySlug(ctx, &models.Category{Name: cat.Name, Slug: cat.Slug}); err != nil {
			return res, fmt.Errorf("seed category %q: %w", cat.Slug, err)
		}
		res.Categories++
	}
	for _, p := range c.Products {
		if err := s.products.UpsertBySKU(ctx, p.model()); err != nil {
			return res, fmt.Errorf("seed product %q: %w", p.SKU, err)
		}
		res.Products++
	}
	s.log.Info("catalog seeded", zap.Int("categories", res.Categories), zap.Int("products", res.Products))
	return res, nil
}

func (p Product) model() *models.Product {
	m := &models.Product{
		SKU:                  p.SKU,
		Title:                p.Title,
		Description:          p.Description,
		Category:             p.Category,
		Brand:                p.Brand,
		Price:                p.Price,
		DiscountPercentage:   p.DiscountPercentage,
		Rating:               p.Rating,
		Stock:                p.Stock,
		AvailabilityStatus:   p.AvailabilityStatus,
		Weight:               p.Weight,
		Dimensions:           models.Dimensions(p.Dimensions),
		WarrantyInformation:  p.WarrantyInformation,
		ShippingInformation:  p.ShippingInformation,
		ReturnPolicy:         p.ReturnPolicy,
		MinimumOrderQuantity: p.MinimumOrderQuantity,
		Tags:                 p.Tags,
		Images:               p.Images,
		Thumbnail:            p.Thumbnail,
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.MinimumOrderQuantity == 0 {
		m.MinimumOrderQuantity = 1
	}
	if m.AvailabilityStatus == "" {
		m.AvailabilityStatus = "Out of Stock"
		if m.Stock > 0 {
			m.AvailabilityStatus = "In Stock"
		}
	}
	if m.Thumbnail == "" && len(m.Images) > 0 {
		m.Thumbnail = m.Images[0]
	}
	return m
}
