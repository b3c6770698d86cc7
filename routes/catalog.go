package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	brandController "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/brand"
	categoryController "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/category"
	productController "github.com/SajanaWickramarathna/CSdrop-sub000/controllers/product"
	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// SetupCatalogRoutes registers products, brands, and categories. Reads are
// public so the storefront can browse without a session; writes are
// admin/manager only.
func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) {
	products := api.Group("/products")
	{
		products.GET("", productController.GetProducts(db))
		products.GET("/product/:id", productController.GetProductByID(db))

		manage := products.Group("")
		manage.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			manage.POST("/create", productController.CreateProduct(db))
			manage.PUT("/update/:id", productController.UpdateProduct(db))
			manage.DELETE("/delete/:id", productController.DeleteProduct(db))
		}
	}

	brands := api.Group("/brands")
	{
		brands.GET("", brandController.GetAllBrands(db))
		brands.GET("/brand/:id", brandController.GetBrandByID(db))

		manage := brands.Group("")
		manage.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			manage.POST("/create", brandController.CreateBrand(db))
			manage.PUT("/update/:id", brandController.UpdateBrand(db))
			manage.DELETE("/delete/:id", brandController.DeleteBrand(db))
		}
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryController.GetAllCategories(db))
		categories.GET("/category/:id", categoryController.GetCategoryByID(db))

		manage := categories.Group("")
		manage.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			manage.POST("/create", categoryController.CreateCategory(db))
			manage.PUT("/update/:id", categoryController.UpdateCategory(db))
			manage.DELETE("/delete/:id", categoryController.DeleteCategory(db))
		}
	}
}
