package repository

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/storefront/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Carts struct {
	db *gorm.DB
}

func NewCarts(db *gorm.DB) *Carts {
	return &Carts{db: db}
}

// FindByUser returns the user's cart without its items.
func (r *Carts) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// Load returns the user's cart with its items (oldest first) and their products.
func (r *Carts) Load(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (r *Carts) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&cart)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &cart, nil
	}

	// A concurrent first add won the insert. cart carries the id generated
	// for the losing row, so read the winner into a fresh value.
	var existing models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, translate(err)
	}
	return &existing, nil
}

// FindItemByProduct looks up the cart line for a product.
func (r *Carts) FindItemByProduct(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindItem looks up a cart line by id, scoped to the cart.
func (r *Carts) FindItem(ctx context.Context, cartID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// AddItem inserts a line. The (cart, product) unique index turns a second
// line for the same product into ErrDuplicate.
func (r *Carts) AddItem(ctx context.Context, item *models.CartItem) error {
	return translate(r.db.WithContext(ctx).Omit("Product").Create(item).Error)
}

func (r *Carts) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Carts) DeleteItem(ctx context.Context, itemID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every line of the user's cart. A user without a cart is a no-op.
func (r *Carts) Clear(ctx context.Context, userID string) error {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}
