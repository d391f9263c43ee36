package services

import (
	"context"
	"errors"
	"strings"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/validation"
)

type CreateCategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryService struct {
	categories *repository.Categories
}

func NewCategoryService(categories *repository.Categories) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category; the slug defaults to the slugified name.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation.Field(validation.InvalidInput, "name", "Name is required")
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, validation.Field(validation.InvalidInput, "slug", "Slug must contain letters or digits")
	}

	c := &models.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Category already exists")
		}
		return nil, err
	}
	return c, nil
}
