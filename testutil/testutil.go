// Package testutil provides the sqlite-backed gin setup shared by handler
// tests.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
	"github.com/SajanaWickramarathna/CSdrop-sub000/routes"
)

const JWTSecret = "test-secret"

// SetupRouter builds an in-memory database with all tables migrated and a
// gin engine with the full route tree.
func SetupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", JWTSecret)
	t.Setenv("UPLOAD_DIR", t.TempDir())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One in-memory database per test; a second pooled connection would see
	// an empty schema.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
		&models.Ticket{},
		&models.TicketReply{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := gin.New()
	routes.SetupRoutes(r, db)
	return r, db
}

// CreateUser inserts a user with a bcrypt password and an empty cart.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Status:    models.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&models.Cart{UserID: user.UserID}).Error; err != nil {
		t.Fatalf("create cart: %v", err)
	}
	return user
}

// Token issues a signed bearer token for the user.
func Token(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": user.UserID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// CreateCatalog inserts a brand, a category, and a product with the given
// price and stock, returning the product.
func CreateCatalog(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	brand := models.Brand{Name: name + " brand"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("create brand: %v", err)
	}
	category := models.Category{Name: name + " category"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := models.Product{
		Name:       name,
		Price:      price,
		Status:     models.ProductStatusActive,
		CategoryID: category.CategoryID,
		BrandID:    brand.BrandID,
		Stock:      stock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
