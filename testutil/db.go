// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/config"
	"github.com/junaidrashid-git/storefront/database"
	"github.com/junaidrashid-git/storefront/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database closed at test end.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.Database{Driver: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db, "like"); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateProduct inserts p and returns it with its generated id.
func CreateProduct(t testing.TB, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	if p.SKU == "" {
		p.SKU = "sku-" + uuid.NewString()
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product %q: %v", p.Title, err)
	}
	return p
}

// CreateUser inserts a credentials user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := models.User{
		FirstName: "Test",
		LastName:  username,
		Email:     username + "@example.com",
		Username:  username,
		Password:  string(hash),
		Role:      role,
		Provider:  "credentials",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}
