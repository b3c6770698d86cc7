package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/cart"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
)

// SetupCartRoutes registers "/api/cart/*". All cart operations require a
// valid token.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("/getcart/:user_id", cartControllers.GetCart(db))
		cart.GET("/count", cartControllers.GetCartCount(db))
		cart.POST("/addtocart", cartControllers.AddToCart(db))
		cart.POST("/restore", cartControllers.RestoreCart(db))
		cart.PUT("/updatecartitem", cartControllers.UpdateCartItem(db))
		cart.PUT("/updatetotalprice", cartControllers.UpdateTotalPrice(db))
		cart.DELETE("/removefromcart", cartControllers.RemoveFromCart(db))
		cart.DELETE("/clearcart/:user_id", cartControllers.ClearCart(db))
	}
}
