package services

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/checkout"
	"github.com/junaidrashid-git/storefront/repository"
)

const OrderPlacedMessage = "Order placed successfully! Thank you for your purchase."

type Receipt struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutService simulates payment: it validates the card, then empties
// the cart. No money moves.
type CheckoutService struct {
	carts     *repository.Carts
	validator *checkout.Validator
}

func NewCheckoutService(carts *repository.Carts, now func() time.Time) *CheckoutService {
	return &CheckoutService{carts: carts, validator: checkout.NewValidator(now)}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string, card checkout.Card) (*Receipt, error) {
	cart, err := s.carts.Load(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, apperr.Validation("Cart is empty", nil)
	}
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(card); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return &Receipt{Success: true, Message: OrderPlacedMessage}, nil
}
