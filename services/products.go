package services

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/events"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/validation"
	"go.uber.org/zap"
)

const (
	msgValidationFailed = "Validation failed"
	msgNoUpdates        = "No valid updates provided"
	statusOutOfStock    = "Out of Stock"
)

// ImageCleaner removes hosted images; failures are its own concern.
type ImageCleaner interface {
	DeleteURLs(ctx context.Context, urls []string)
}

type Publisher interface {
	Publish(e events.Event)
}

type CreateProductInput struct {
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description" validate:"required"`
	Category             string   `json:"category" validate:"required"`
	Brand                string   `json:"brand"`
	Price                float64  `json:"price" validate:"gt=0"`
	DiscountPercentage   float64  `json:"discountPercentage" validate:"min=0,max=100"`
	Weight               float64  `json:"weight" validate:"omitempty,gt=0"`
	Width                float64  `json:"width" validate:"omitempty,gt=0"`
	Height               float64  `json:"height" validate:"omitempty,gt=0"`
	Depth                float64  `json:"depth" validate:"omitempty,gt=0"`
	WarrantyInformation  string   `json:"warrantyInformation"`
	ShippingInformation  string   `json:"shippingInformation"`
	ReturnPolicy         string   `json:"returnPolicy"`
	MinimumOrderQuantity int      `json:"minimumOrderQuantity" validate:"omitempty,min=1"`
	Tags                 []string `json:"tags"`
	Images               []string `json:"images" validate:"dive,url"`
}

// UpdateProductInput is a partial update; nil fields are left alone.
type UpdateProductInput struct {
	Title                *string   `json:"title" validate:"omitnil,min=1"`
	Description          *string   `json:"description" validate:"omitnil,min=1"`
	Category             *string   `json:"category" validate:"omitnil,min=1"`
	Brand                *string   `json:"brand"`
	Price                *float64  `json:"price" validate:"omitnil,gt=0"`
	DiscountPercentage   *float64  `json:"discountPercentage" validate:"omitnil,min=0,max=100"`
	Weight               *float64  `json:"weight" validate:"omitnil,gt=0"`
	Width                *float64  `json:"width" validate:"omitnil,gt=0"`
	Height               *float64  `json:"height" validate:"omitnil,gt=0"`
	Depth                *float64  `json:"depth" validate:"omitnil,gt=0"`
	WarrantyInformation  *string   `json:"warrantyInformation"`
	ShippingInformation  *string   `json:"shippingInformation"`
	ReturnPolicy         *string   `json:"returnPolicy"`
	MinimumOrderQuantity *int      `json:"minimumOrderQuantity" validate:"omitnil,min=1"`
	Tags                 *[]string `json:"tags"`
	Images               *[]string `json:"images" validate:"omitnil,dive,url"`
}

var productMessages = validation.Messages{
	"title":                "Title is required",
	"description":          "Description is required",
	"category":             "Category is required",
	"price":                "Price must be positive",
	"discountPercentage":   "Discount must be between 0 and 100",
	"weight":               "Weight must be positive",
	"width":                "Width must be positive",
	"height":               "Height must be positive",
	"depth":                "Depth must be positive",
	"minimumOrderQuantity": "Minimum order quantity must be a positive integer",
	"images":               "Images must be valid URLs",
}

type ProductService struct {
	products *repository.Products
	images   ImageCleaner
	events   Publisher
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewProductService(products *repository.Products, images ImageCleaner, pub Publisher, log *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
		events:   pub,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgProductNotFound)
	}
	return p, err
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := validation.Check(s.validate, in, msgValidationFailed, productMessages); err != nil {
		return nil, err
	}

	p := &models.Product{
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Category:             in.Category,
		Brand:                in.Brand,
		SKU:                  Slugify(in.Title) + "-" + strconv.FormatInt(s.now().UnixMilli(), 10),
		Price:                in.Price,
		DiscountPercentage:   in.DiscountPercentage,
		AvailabilityStatus:   statusOutOfStock,
		Weight:               in.Weight,
		Dimensions:           models.Dimensions{Width: in.Width, Height: in.Height, Depth: in.Depth},
		WarrantyInformation:  in.WarrantyInformation,
		ShippingInformation:  in.ShippingInformation,
		ReturnPolicy:         in.ReturnPolicy,
		MinimumOrderQuantity: in.MinimumOrderQuantity,
		Tags:                 nonNil(in.Tags),
		Images:               nonNil(in.Images),
	}
	if p.MinimumOrderQuantity == 0 {
		p.MinimumOrderQuantity = 1
	}
	if len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}

	if err := s.products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("A product with this SKU already exists")
		}
		return nil, err
	}
	s.publish(events.ProductCreated, p.ID)
	return p, nil
}

// Update applies a partial update. Supplying any dimension replaces all
// three, with missing ones set to zero. Images dropped by the update are
// removed from the image host.
func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	if err := validation.Check(s.validate, in, msgValidationFailed, productMessages); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, err
	}

	changed := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}

	set(&p.Title, in.Title)
	set(&p.Description, in.Description)
	set(&p.Category, in.Category)
	set(&p.Brand, in.Brand)
	set(&p.WarrantyInformation, in.WarrantyInformation)
	set(&p.ShippingInformation, in.ShippingInformation)
	set(&p.ReturnPolicy, in.ReturnPolicy)
	setFloat(&p.Price, in.Price)
	setFloat(&p.DiscountPercentage, in.DiscountPercentage)
	setFloat(&p.Weight, in.Weight)

	if in.MinimumOrderQuantity != nil {
		p.MinimumOrderQuantity = *in.MinimumOrderQuantity
		changed = true
	}
	if in.Tags != nil {
		p.Tags = nonNil(*in.Tags)
		changed = true
	}
	if in.Width != nil || in.Height != nil || in.Depth != nil {
		p.Dimensions = models.Dimensions{Width: deref(in.Width), Height: deref(in.Height), Depth: deref(in.Depth)}
		changed = true
	}

	var removed []string
	if in.Images != nil {
		next := nonNil(*in.Images)
		for _, old := range p.Images {
			if !slices.Contains(next, old) {
				removed = append(removed, old)
			}
		}
		p.Images = next
		if !slices.Contains(next, p.Thumbnail) {
			p.Thumbnail = ""
			if len(next) > 0 {
				p.Thumbnail = next[0]
			}
		}
		changed = true
	}

	if !changed {
		return nil, apperr.Validation(msgNoUpdates, nil)
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	if len(removed) > 0 && s.images != nil {
		s.images.DeleteURLs(ctx, removed)
	}
	s.publish(events.ProductUpdated, p.ID)
	return p, nil
}

// Delete removes the product with its reviews and cart lines, then its images.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgProductNotFound)
	}
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgProductNotFound)
		}
		return err
	}
	if len(p.Images) > 0 && s.images != nil {
		s.images.DeleteURLs(ctx, p.Images)
	}
	s.publish(events.ProductDeleted, id)
	return nil
}

func (s *ProductService) publish(t events.Type, productID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{Type: t, ProductID: productID, At: s.now().UTC()})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
