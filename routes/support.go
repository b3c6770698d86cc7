package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	analyticsControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/analytics"
	ticketControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/ticket"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// SetupSupportRoutes registers tickets and the analytics dashboard.
func SetupSupportRoutes(api *gin.RouterGroup, db *gorm.DB) {
	tickets := api.Group("/tickets")
	tickets.Use(middleware.ValidateToken)
	{
		tickets.POST("/create", ticketControllers.CreateTicket(db))
		tickets.GET("/user/:user_id", ticketControllers.GetTicketsByUser(db))
		tickets.POST("/reply/:id", ticketControllers.ReplyToTicket(db))

		staff := tickets.Group("")
		staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupporter, models.RoleManager))
		{
			staff.GET("", ticketControllers.GetAllTickets(db))
			staff.PATCH("/status/:id", ticketControllers.UpdateTicketStatus(db))
		}
	}

	analytics := api.Group("/analytics")
	analytics.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	{
		analytics.GET("/summary", analyticsControllers.GetSummary(db))
		analytics.GET("/export/orders", analyticsControllers.ExportOrdersToExcel(db))
		analytics.GET("/export/products", analyticsControllers.ExportProductsToExcel(db))
	}
}
