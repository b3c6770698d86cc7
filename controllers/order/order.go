package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	deliveryControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/delivery"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

type UpdateOrderStatusRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// generateOrderRef builds a unique order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// parseOrderItems reads the indexed multipart item fields
// (items[0][product_id], items[0][quantity], items[0][price], ...).
func parseOrderItems(c *gin.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	for i := 0; ; i++ {
		productIDStr := c.PostForm(fmt.Sprintf("items[%d][product_id]", i))
		if productIDStr == "" {
			break
		}
		productID, err := strconv.ParseUint(productIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id at index %d", i)
		}
		quantity, err := strconv.Atoi(c.PostForm(fmt.Sprintf("items[%d][quantity]", i)))
		if err != nil || quantity < 1 {
			return nil, fmt.Errorf("invalid quantity at index %d", i)
		}
		price, err := strconv.ParseFloat(c.PostForm(fmt.Sprintf("items[%d][price]", i)), 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("invalid price at index %d", i)
		}
		items = append(items, models.OrderItem{
			ProductID: uint(productID),
			Quantity:  quantity,
			Price:     price,
		})
	}
	if len(items) == 0 {
		return nil, errors.New("order has no items")
	}
	return items, nil
}

// POST /api/orders/create
//
// Multipart order creation. Runs the order insert and stock deduction in one
// transaction. Deliberately does not touch the cart: the storefront clears it
// in a follow-up call and restores it if this request failed.
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.PostForm("user_id")
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}

		shippingAddress := c.PostForm("shipping_address")
		if shippingAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shipping_address is required"})
			return
		}

		paymentMethod := models.PaymentMethod(c.PostForm("payment_method"))
		if paymentMethod != models.PaymentMethodCOD && paymentMethod != models.PaymentMethodSlip {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_method"})
			return
		}

		items, err := parseOrderItems(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User does not exist"})
			return
		}

		var slipURL string
		if paymentMethod == models.PaymentMethodSlip {
			file, err := c.FormFile("payment_slip")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment slip is required for slip payments"})
				return
			}
			if err := validateSlip(file); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if slipURL, err = saveSlip(c, file); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		// Total: trust the submitted value when present, otherwise derive it
		// from the item list.
		var totalPrice float64
		if totalStr := c.PostForm("total_price"); totalStr != "" {
			if totalPrice, err = strconv.ParseFloat(totalStr, 64); err != nil || totalPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid total_price"})
				return
			}
		} else {
			total := decimal.Zero
			for _, item := range items {
				line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
				total = total.Add(line)
			}
			totalPrice = total.InexactFloat64()
		}

		order := models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          uint(userID),
			Email:           c.PostForm("email"),
			Items:           items,
			ShippingAddress: shippingAddress,
			TotalPrice:      totalPrice,
			PaymentMethod:   paymentMethod,
			PaymentSlip:     slipURL,
			Status:          models.OrderStatusPending,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, item := range items {
				var product models.Product
				if err := tx.First(&product, "product_id = ?", item.ProductID).Error; err != nil {
					return fmt.Errorf("product %d does not exist", item.ProductID)
				}
				if product.Stock < item.Quantity {
					return fmt.Errorf("insufficient stock for product: %s", product.Name)
				}
				product.Stock -= item.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}
			}
			return tx.Create(&order).Error
		})
		if err != nil {
			removeSlip(slipURL)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

// GET /api/orders
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			if !models.ValidOrderStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/user/:user_id
func GetOrdersByUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", c.Param("user_id")).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/order/:id
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Preload("Items").First(&order, "order_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /api/orders/updatestatus
//
// Moving an order to inDelivery creates its delivery record.
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		var order models.Order
		if err := db.First(&order, "order_id = ?", req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusDelivered {
			c.JSON(http.StatusConflict, gin.H{"error": "Order is already " + string(order.Status)})
			return
		}

		newStatus := models.OrderStatus(req.Status)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
				return err
			}
			if newStatus == models.OrderStatusInDelivery {
				var existing models.Delivery
				if err := tx.Where("order_id = ?", order.OrderID).First(&existing).Error; err == gorm.ErrRecordNotFound {
					eta := time.Now().Add(72 * time.Hour)
					delivery := models.Delivery{
						OrderID:           order.OrderID,
						UserID:            order.UserID,
						Address:           order.ShippingAddress,
						DeliveryStatus:    models.DeliveryStatusPending,
						EstimatedDelivery: &eta,
					}
					return tx.Create(&delivery).Error
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		order.Status = newStatus
		deliveryControllers.BroadcastOrderStatus(order.OrderID, string(newStatus))
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// PUT /api/orders/cancel/:id
//
// Only pending and processing orders may be cancelled. Stock is restored and
// an uploaded slip is removed.
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Preload("Items").First(&order, "order_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).
					Where("product_id = ?", item.ProductID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
			return tx.Model(&order).Update("status", models.OrderStatusCancelled).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}

		removeSlip(order.PaymentSlip)
		order.Status = models.OrderStatusCancelled
		deliveryControllers.BroadcastOrderStatus(order.OrderID, string(models.OrderStatusCancelled))
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
