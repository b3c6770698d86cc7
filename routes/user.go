package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/user"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// SetupUserRoutes registers "/api/users/*". Profile endpoints need a valid
// token; account management is admin/manager only.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	users := api.Group("/users")
	users.Use(middleware.ValidateToken)
	{
		users.GET("/me", userControllers.GetMe(db))
		users.PUT("/update", userControllers.UpdateUser(db))

		admin := users.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			admin.GET("", userControllers.GetAllUsers(db))
			admin.GET("/user/:id", userControllers.GetUserByID(db))
			admin.POST("/create", userControllers.CreateUser(db))
			admin.PATCH("/status/:id", userControllers.UpdateUserStatus(db))
			admin.DELETE("/delete/:id", userControllers.DeleteUser(db))
		}
	}
}
