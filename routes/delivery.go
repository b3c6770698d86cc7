package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	deliveryControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/delivery"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// SetupDeliveryRoutes registers "/api/deliveries/*". The tracking socket is
// public (customers watch their order without re-authenticating the
// websocket handshake); management endpoints are for staff.
func SetupDeliveryRoutes(api *gin.RouterGroup, db *gorm.DB) {
	deliveries := api.Group("/deliveries")

	deliveries.GET("/track/:order_id", deliveryControllers.TrackDelivery)

	authed := deliveries.Group("")
	authed.Use(middleware.ValidateToken)
	{
		authed.GET("/order/:order_id", deliveryControllers.GetDeliveryByOrder(db))

		staff := authed.Group("")
		staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleDeliverer))
		{
			staff.GET("", deliveryControllers.GetAllDeliveries(db))
			staff.PUT("/updatestatus", deliveryControllers.UpdateDeliveryStatus(db))
		}
	}
}
