package cartControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

type AddToCartInput struct {
	UserID    uint `json:"user_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	UserID    uint `json:"user_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type RemoveFromCartInput struct {
	UserID    uint `json:"user_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
}

type UpdateTotalPriceInput struct {
	UserID     uint    `json:"user_id" binding:"required"`
	TotalPrice float64 `json:"total_price"`
}

type RestoreCartInput struct {
	UserID uint `json:"user_id" binding:"required"`
	Items  []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required"`
}

// loadOrCreateCart fetches the user's cart aggregate, creating an empty one
// on first touch.
func loadOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal re-derives the cart total from current product prices and
// persists it. Items whose product no longer exists contribute nothing.
func recomputeTotal(db *gorm.DB, cart *models.Cart) error {
	total := decimal.Zero
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, "product_id = ?", item.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return err
		}
		line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	cart.TotalPrice = total.InexactFloat64()
	return db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
		Update("total_price", cart.TotalPrice).Error
}

func reloadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GET /api/cart/getcart/:user_id
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		cart, err := loadOrCreateCart(db, uint(userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /api/cart/addtocart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "product_id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			msg := "Failed to validate product"
			if err == gorm.ErrRecordNotFound {
				status = http.StatusBadRequest
				msg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": msg})
			return
		}
		if product.Status != models.ProductStatusActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available"})
			return
		}

		cart, err := loadOrCreateCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		default:
			item.Quantity += input.Quantity
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
		}

		cart, err = reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /api/cart/updatecartitem
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		var item models.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		cart, err = reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart/removefromcart
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RemoveFromCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		cart, err = reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart/clearcart/:user_id
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}

		cart, err := reloadCart(db, uint(userID))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if err := db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Update("total_price", 0).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// PUT /api/cart/updatetotalprice
//
// The storefront pushes its locally computed total after pruning; the value
// is adopted as-is and the full aggregate is returned.
func UpdateTotalPrice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateTotalPriceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		if err := db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Update("total_price", input.TotalPrice).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update total price"})
			return
		}
		cart.TotalPrice = input.TotalPrice
		c.JSON(http.StatusOK, cart)
	}
}

// GET /api/cart/count
func GetCartCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusOK, gin.H{"count": 0})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": cart.ItemCount()})
	}
}

// POST /api/cart/restore
//
// Best-effort re-seed after a failed checkout: replaces the cart contents
// with the submitted snapshot. Unknown products are skipped.
func RestoreCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RestoreCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := loadOrCreateCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore cart"})
			return
		}
		for _, in := range input.Items {
			var product models.Product
			if err := db.First(&product, "product_id = ?", in.ProductID).Error; err != nil {
				continue
			}
			item := models.CartItem{
				CartID:    cart.CartID,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore cart"})
				return
			}
		}

		cart, err = reloadCart(db, input.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := recomputeTotal(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart total"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
