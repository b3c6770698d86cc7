package analyticsControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// GET /api/analytics/summary
//
// Dashboard counters: revenue over non-cancelled orders, order counts per
// status, and entity totals.
func GetSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Where("status <> ?", models.OrderStatusCancelled).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		revenue := decimal.Zero
		for _, order := range orders {
			revenue = revenue.Add(decimal.NewFromFloat(order.TotalPrice))
		}

		statusCounts := make(map[string]int64)
		for _, status := range []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusProcessing,
			models.OrderStatusInDelivery,
			models.OrderStatusDelivered,
			models.OrderStatusCancelled,
		} {
			var n int64
			if err := db.Model(&models.Order{}).Where("status = ?", status).Count(&n).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
				return
			}
			statusCounts[string(status)] = n
		}

		var userCount, productCount, ticketCount int64
		db.Model(&models.User{}).Count(&userCount)
		db.Model(&models.Product{}).Count(&productCount)
		db.Model(&models.Ticket{}).Count(&ticketCount)

		c.JSON(http.StatusOK, gin.H{
			"total_revenue":    revenue.InexactFloat64(),
			"orders_by_status": statusCounts,
			"total_orders":     len(orders),
			"total_users":      userCount,
			"total_products":   productCount,
			"total_tickets":    ticketCount,
		})
	}
}
