package services

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/checkout"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(n int) *int { return &n }

func newCartFixture(t *testing.T) (*gorm.DB, *CartService, models.User, models.Product) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewCartService(repository.NewCarts(db), repository.NewProducts(db))
	user := testutil.CreateUser(t, db, "shopper", models.RoleUser)
	product := testutil.CreateProduct(t, db, models.Product{
		Title: "Essence Mascara", Category: "beauty", Price: 9.99, DiscountPercentage: 10,
	})
	return db, svc, user, product
}

func TestCartGetWithoutCart(t *testing.T) {
	_, svc, user, _ := newCartFixture(t)

	view, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Cart)
	assert.Empty(t, view.Products)
	assert.Zero(t, view.TotalPrice)
}

func TestCartAddAndTotals(t *testing.T) {
	db, svc, user, mascara := newCartFixture(t)
	ctx := context.Background()
	phone := testutil.CreateProduct(t, db, models.Product{Title: "iPhone 9", Category: "smartphones", Price: 549})

	_, err := svc.Add(ctx, user.ID, AddToCartInput{ProductID: mascara.ID, Quantity: intPtr(3)})
	require.NoError(t, err)
	item, err := svc.Add(ctx, user.ID, AddToCartInput{ProductID: phone.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Products, 2)
	assert.Equal(t, 26.97, view.Products[0].TotalPrice)
	assert.Equal(t, 549.0, view.Products[1].TotalPrice)
	assert.Equal(t, 575.97, view.TotalPrice)
	assert.Equal(t, 2, view.TotalProducts)
	assert.Equal(t, 4, view.TotalQuantity)
}

func TestCartAddRejectsDuplicateProduct(t *testing.T) {
	_, svc, user, product := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, user.ID, AddToCartInput{ProductID: product.ID})
	require.NoError(t, err)

	_, err = svc.Add(ctx, user.ID, AddToCartInput{ProductID: product.ID, Quantity: intPtr(2)})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.EqualError(t, err, msgAlreadyInCart)
}

func TestCartAddValidation(t *testing.T) {
	_, svc, user, product := newCartFixture(t)

	tests := []struct {
		name  string
		in    AddToCartInput
		kind  apperr.Kind
		field string
	}{
		{"missing product", AddToCartInput{}, apperr.KindValidation, "productId"},
		{"zero quantity", AddToCartInput{ProductID: product.ID, Quantity: intPtr(0)}, apperr.KindValidation, "quantity"},
		{"unknown product", AddToCartInput{ProductID: "nope"}, apperr.KindNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), user.ID, tt.in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, tt.kind))
			if tt.field != "" {
				var e *apperr.Error
				require.ErrorAs(t, err, &e)
				assert.Contains(t, e.Fields, tt.field)
			}
		})
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	_, svc, user, product := newCartFixture(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, user.ID, AddToCartInput{ProductID: product.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, user.ID, UpdateCartItemInput{CartItemID: item.ID, Quantity: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateQuantity(ctx, user.ID, UpdateCartItemInput{CartItemID: item.ID, Quantity: intPtr(-1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	removed, err := svc.UpdateQuantity(ctx, user.ID, UpdateCartItemInput{CartItemID: item.ID, Quantity: intPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, removed)

	view, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Products)
}

func TestCartItemsAreScopedToOwner(t *testing.T) {
	db, svc, owner, product := newCartFixture(t)
	ctx := context.Background()
	other := testutil.CreateUser(t, db, "intruder", models.RoleUser)

	item, err := svc.Add(ctx, owner.ID, AddToCartInput{ProductID: product.ID})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, other.ID, UpdateCartItemInput{CartItemID: item.ID, Quantity: intPtr(2)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = svc.Remove(ctx, other.ID, item.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Remove(ctx, owner.ID, item.ID))
	err = svc.Remove(ctx, owner.ID, item.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "8.99", LineTotal(9.99, 10, 1).StringFixed(2))
	assert.Equal(t, "0.30", LineTotal(0.1, 0, 3).StringFixed(2))
	assert.Equal(t, "0.00", LineTotal(50, 100, 2).StringFixed(2))
}

func TestCheckout(t *testing.T) {
	db, cartSvc, user, product := newCartFixture(t)
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	svc := NewCheckoutService(repository.NewCarts(db), now)

	card := checkout.Card{
		CardholderName: "Jane Doe",
		CardNumber:     "4242 4242 4242 4242",
		ExpirationDate: "12/27",
		CVV:            "123",
	}

	_, err := svc.Checkout(ctx, user.ID, card)
	require.Error(t, err)
	assert.EqualError(t, err, "Cart is empty")

	_, err = cartSvc.Add(ctx, user.ID, AddToCartInput{ProductID: product.ID})
	require.NoError(t, err)

	bad := card
	bad.CardNumber = "4242 4242 4242 4241"
	_, err = svc.Checkout(ctx, user.ID, bad)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	view, err := cartSvc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Products, 1, "failed checkout keeps the cart")

	receipt, err := svc.Checkout(ctx, user.ID, card)
	require.NoError(t, err)
	assert.Equal(t, &Receipt{Success: true, Message: OrderPlacedMessage}, receipt)

	view, err = cartSvc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Products)
}
