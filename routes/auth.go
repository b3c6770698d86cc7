package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/auth"
)

// SetupAuthRoutes registers the public signup/login endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.POST("/users/signup", auth.Signup(db))
	api.POST("/users/login", auth.Login(db))
}
