package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductsDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	p := testutil.CreateProduct(t, db, models.Product{Title: "Phone", Category: "smartphones", Price: 10})

	reviews := repository.NewReviews(db)
	require.NoError(t, reviews.Create(ctx, &models.Review{ProductID: p.ID, UserID: user.ID, Rating: 5, Comment: "ok", Date: time.Now()}))

	carts := repository.NewCarts(db)
	cart, err := carts.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}))

	products := repository.NewProducts(db)
	require.NoError(t, products.Delete(ctx, p.ID))

	_, err = products.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := reviews.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = carts.FindItemByProduct(ctx, cart.ID, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, products.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestProductsUpsertBySKU(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	products := repository.NewProducts(db)

	require.NoError(t, products.UpsertBySKU(ctx, &models.Product{Title: "Lamp", Category: "home", SKU: "lamp-1", Price: 5}))
	require.NoError(t, products.UpsertBySKU(ctx, &models.Product{Title: "Lamp v2", Category: "home", SKU: "lamp-1", Price: 7}))

	all, err := products.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Lamp v2", all[0].Title)
	assert.Equal(t, 7.0, all[0].Price)
}

func TestCartsDuplicateProductRejected(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "bob", models.RoleUser)
	p := testutil.CreateProduct(t, db, models.Product{Title: "Mug", Category: "kitchen", Price: 3})

	carts := repository.NewCarts(db)
	cart, err := carts.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	again, err := carts.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	require.NoError(t, carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}))
	err = carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCartsGetOrCreateLosesInsertRace(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "racer", models.RoleUser)

	// Another request creates the cart between our lookup and our insert.
	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:competing_cart", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "carts" {
			return
		}
		fired = true
		now := time.Now()
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"winner", user.ID, now, now,
		)
	}))

	cart, err := repository.NewCarts(db).GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, "winner", cart.ID)
	assert.Equal(t, user.ID, cart.UserID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartsLoadIncludesProducts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "carol", models.RoleUser)
	a := testutil.CreateProduct(t, db, models.Product{Title: "A", Category: "x", Price: 1})
	b := testutil.CreateProduct(t, db, models.Product{Title: "B", Category: "x", Price: 2})

	carts := repository.NewCarts(db)
	_, err := carts.Load(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	cart, err := carts.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: a.ID, Quantity: 1}))
	require.NoError(t, carts.AddItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: b.ID, Quantity: 3}))

	loaded, err := carts.Load(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	for _, item := range loaded.Items {
		assert.NotEmpty(t, item.Product.Title)
	}

	require.NoError(t, carts.Clear(ctx, user.ID))
	loaded, err = carts.Load(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestCartsItemScopedToCart(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dave", models.RoleUser)
	other := testutil.CreateUser(t, db, "erin", models.RoleUser)
	p := testutil.CreateProduct(t, db, models.Product{Title: "Pen", Category: "office", Price: 1})

	carts := repository.NewCarts(db)
	ownerCart, err := carts.GetOrCreate(ctx, owner.ID)
	require.NoError(t, err)
	otherCart, err := carts.GetOrCreate(ctx, other.ID)
	require.NoError(t, err)

	item := &models.CartItem{CartID: ownerCart.ID, ProductID: p.ID, Quantity: 1}
	require.NoError(t, carts.AddItem(ctx, item))

	_, err = carts.FindItem(ctx, otherCart.ID, item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, carts.SetQuantity(ctx, item.ID, 4))
	found, err := carts.FindItem(ctx, ownerCart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Quantity)

	require.NoError(t, carts.DeleteItem(ctx, item.ID))
	assert.ErrorIs(t, carts.DeleteItem(ctx, item.ID), repository.ErrNotFound)
}

func TestReviewsNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "frank", models.RoleUser)
	p := testutil.CreateProduct(t, db, models.Product{Title: "Desk", Category: "office", Price: 100})

	reviews := repository.NewReviews(db)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, comment := range []string{"first", "second", "third"} {
		require.NoError(t, reviews.Create(ctx, &models.Review{
			ProductID: p.ID, UserID: user.ID, Rating: 4, Comment: comment,
			Date: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := reviews.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Comment)
	assert.Equal(t, "first", list[2].Comment)
}

func TestUsersLookupsAndRoles(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "grace", models.RoleUser)
	users := repository.NewUsers(db)

	found, err := users.FindByEmailOrUsername(ctx, "nobody@example.com", "grace")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = users.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = users.Create(ctx, &models.User{Email: "grace@example.com", Username: "grace2"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, users.UpdateRole(ctx, u.ID, models.RoleModerator))
	found, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, found.Role)

	assert.ErrorIs(t, users.UpdateRole(ctx, "missing", models.RoleAdmin), repository.ErrNotFound)
}

func TestCategoriesUpsertBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	categories := repository.NewCategories(db)

	require.NoError(t, categories.UpsertBySlug(ctx, &models.Category{Name: "Phones", Slug: "smartphones"}))
	require.NoError(t, categories.UpsertBySlug(ctx, &models.Category{Name: "Smartphones", Slug: "smartphones"}))
	require.NoError(t, categories.Create(ctx, &models.Category{Name: "Beauty", Slug: "beauty"}))
	assert.ErrorIs(t, categories.Create(ctx, &models.Category{Name: "Beauty", Slug: "beauty"}), repository.ErrDuplicate)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Beauty", list[0].Name)
	assert.Equal(t, "Smartphones", list[1].Name)
}
