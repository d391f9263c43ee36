package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/validation"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"min=1,max=300"`
}

var reviewMessages = validation.Messages{
	"rating":      "Rating must be between 1 and 5",
	"comment.min": "Comment is required",
	"comment.max": "Comment must be at most 300 characters",
}

// Actor is the authenticated caller of a service method.
type Actor struct {
	UserID string
	Role   models.Role
}

type ReviewService struct {
	reviews  *repository.Reviews
	products *repository.Products
	users    *repository.Users
	validate *validator.Validate
	now      func() time.Time
}

func NewReviewService(reviews *repository.Reviews, products *repository.Products, users *repository.Users) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		users:    users,
		validate: validation.New(),
		now:      time.Now,
	}
}

// List returns a product's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, productID string) ([]models.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

func (s *ReviewService) Create(ctx context.Context, actor Actor, productID string, in CreateReviewInput) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Check(s.validate, in, validation.InvalidInput, reviewMessages); err != nil {
		return nil, err
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgProductNotFound)
		}
		return nil, err
	}

	author, err := s.users.FindByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized()
	}
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:     productID,
		UserID:        author.ID,
		Rating:        in.Rating,
		Comment:       in.Comment,
		ReviewerName:  author.DisplayName(),
		ReviewerEmail: author.Email,
		Date:          s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Only its author or a moderator of reviews may.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, productID, reviewID string) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && review.ProductID != productID) {
		return apperr.NotFound("Review not found")
	}
	if err != nil {
		return err
	}

	if review.UserID != actor.UserID && !auth.Can(actor.Role, auth.CapReviewsModerate) {
		return &apperr.Error{Kind: apperr.KindForbidden, Message: "You do not have permission to delete this review"}
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
