package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/validation"
	"github.com/shopspring/decimal"
)

const (
	msgAlreadyInCart    = "This product is already in your cart"
	msgProductNotFound  = "Product not found"
	msgCartItemNotFound = "Cart item not found"
)

type AddToCartInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateCartItemInput struct {
	CartItemID string `json:"cartItemId" validate:"required"`
	Quantity   *int   `json:"quantity" validate:"required,min=0"`
}

var addMessages = validation.Messages{
	"productId":    "Product ID is required",
	"quantity.min": "Quantity must be a positive integer",
}

var updateMessages = validation.Messages{
	"cartItemId":        "Cart item ID is required",
	"quantity.required": "Quantity is required",
	"quantity.min":      "Quantity cannot be negative",
}

// CartLine is one cart item priced at read time.
type CartLine struct {
	ID                 string  `json:"id"`
	CartItemID         string  `json:"cartItemId"`
	Title              string  `json:"title"`
	Thumbnail          string  `json:"thumbnail"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Quantity           int     `json:"quantity"`
	TotalPrice         float64 `json:"totalPrice"`
}

// CartView is the priced cart. Cart is nil for a user who never added anything.
type CartView struct {
	Cart          *models.Cart `json:"cart"`
	Products      []CartLine   `json:"products"`
	TotalPrice    float64      `json:"totalPrice"`
	TotalProducts int          `json:"totalProducts"`
	TotalQuantity int          `json:"totalQuantity"`
}

type CartService struct {
	carts    *repository.Carts
	products *repository.Products
	validate *validator.Validate
}

func NewCartService(carts *repository.Carts, products *repository.Products) *CartService {
	return &CartService{carts: carts, products: products, validate: validation.New()}
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.carts.Load(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &CartView{Products: []CartLine{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return priceCart(cart), nil
}

// LineTotal is round2(price × (1 − discount/100) × quantity).
func LineTotal(price, discountPercentage float64, quantity int) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(decimal.NewFromFloat(discountPercentage)).Div(hundred)
	return decimal.NewFromFloat(price).Mul(factor).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func priceCart(cart *models.Cart) *CartView {
	view := &CartView{Cart: cart, Products: make([]CartLine, 0, len(cart.Items))}
	total := decimal.Zero
	for _, item := range cart.Items {
		line := LineTotal(item.Product.Price, item.Product.DiscountPercentage, item.Quantity)
		total = total.Add(line)
		view.Products = append(view.Products, CartLine{
			ID:                 item.Product.ID,
			CartItemID:         item.ID,
			Title:              item.Product.Title,
			Thumbnail:          item.Product.Thumbnail,
			Price:              item.Product.Price,
			DiscountPercentage: item.Product.DiscountPercentage,
			Quantity:           item.Quantity,
			TotalPrice:         line.InexactFloat64(),
		})
		view.TotalQuantity += item.Quantity
	}
	view.TotalPrice = total.Round(2).InexactFloat64()
	view.TotalProducts = len(view.Products)
	return view
}

// Add puts a product in the user's cart, creating the cart on first use.
// A product already in the cart is rejected rather than merged.
func (s *CartService) Add(ctx context.Context, userID string, in AddToCartInput) (*models.CartItem, error) {
	if err := validation.Check(s.validate, in, validation.InvalidInput, addMessages); err != nil {
		return nil, err
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = s.carts.FindItemByProduct(ctx, cart.ID, product.ID)
	if err == nil {
		return nil, apperr.Conflict(msgAlreadyInCart)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
	if err := s.carts.AddItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(msgAlreadyInCart)
		}
		return nil, err
	}
	item.Product = *product
	return item, nil
}

// UpdateQuantity sets a line's quantity; zero removes the line and returns nil.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, in UpdateCartItemInput) (*models.CartItem, error) {
	if err := validation.Check(s.validate, in, validation.InvalidInput, updateMessages); err != nil {
		return nil, err
	}

	item, err := s.ownedItem(ctx, userID, in.CartItemID)
	if err != nil {
		return nil, err
	}

	if *in.Quantity <= 0 {
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, nil
	}

	if err := s.carts.SetQuantity(ctx, item.ID, *in.Quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgCartItemNotFound)
		}
		return nil, err
	}
	item.Quantity = *in.Quantity
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, cartItemID string) error {
	if cartItemID == "" {
		return validation.Field(validation.InvalidInput, "cartItemId", updateMessages["cartItemId"])
	}
	item, err := s.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// ownedItem finds a line in the caller's own cart.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgCartItemNotFound)
	}
	if err != nil {
		return nil, err
	}
	item, err := s.carts.FindItem(ctx, cart.ID, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgCartItemNotFound)
	}
	return item, err
}
