package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/order"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// SetupOrderRoutes registers "/api/orders/*".
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("/create", orderControllers.CreateOrder(db))
		orders.GET("/user/:user_id", orderControllers.GetOrdersByUser(db))
		orders.GET("/order/:id", orderControllers.GetOrderByID(db))
		orders.PUT("/cancel/:id", orderControllers.CancelOrder(db))

		manage := orders.Group("")
		manage.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			manage.GET("", orderControllers.GetAllOrders(db))
			manage.PUT("/updatestatus", orderControllers.UpdateOrderStatus(db))
		}
	}
}
