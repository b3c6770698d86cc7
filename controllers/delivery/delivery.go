package deliveryControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

type UpdateDeliveryStatusRequest struct {
	DeliveryID uint   `json:"delivery_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// GET /api/deliveries
func GetAllDeliveries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			if !models.ValidDeliveryStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			query = query.Where("delivery_status = ?", status)
		}

		var deliveries []models.Delivery
		if err := query.Find(&deliveries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deliveries"})
			return
		}
		c.JSON(http.StatusOK, deliveries)
	}
}

// GET /api/deliveries/order/:order_id
func GetDeliveryByOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var delivery models.Delivery
		if err := db.First(&delivery, "order_id = ?", c.Param("order_id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
			return
		}
		c.JSON(http.StatusOK, delivery)
	}
}

// PUT /api/deliveries/updatestatus
//
// Reaching "delivered" stamps actual_delivery and marks the order delivered.
func UpdateDeliveryStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateDeliveryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidDeliveryStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		var delivery models.Delivery
		if err := db.First(&delivery, "delivery_id = ?", req.DeliveryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
			return
		}
		if delivery.DeliveryStatus == models.DeliveryStatusDelivered ||
			delivery.DeliveryStatus == models.DeliveryStatusCancelled {
			c.JSON(http.StatusConflict, gin.H{"error": "Delivery is already " + string(delivery.DeliveryStatus)})
			return
		}

		newStatus := models.DeliveryStatus(req.Status)
		updates := map[string]interface{}{"delivery_status": newStatus}
		if newStatus == models.DeliveryStatusDelivered {
			now := time.Now()
			updates["actual_delivery"] = &now
			delivery.ActualDelivery = &now
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&delivery).Updates(updates).Error; err != nil {
				return err
			}
			if newStatus == models.DeliveryStatusDelivered {
				return tx.Model(&models.Order{}).
					Where("order_id = ?", delivery.OrderID).
					Update("status", models.OrderStatusDelivered).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery status"})
			return
		}

		delivery.DeliveryStatus = newStatus
		BroadcastOrderStatus(delivery.OrderID, string(newStatus))
		c.JSON(http.StatusOK, delivery)
	}
}
