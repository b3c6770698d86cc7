package productController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// POST /api/products/create
//
// Multipart form: name, price, category_id, brand_id required; description,
// stock, status, image optional.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		categoryIDStr := c.PostForm("category_id")
		brandIDStr := c.PostForm("brand_id")
		if name == "" || priceStr == "" || categoryIDStr == "" || brandIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price, category_id, and brand_id are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		brandID, err := strconv.ParseUint(brandIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brand_id"})
			return
		}

		var category models.Category
		if err := db.First(&category, "category_id = ?", categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}
		var brand models.Brand
		if err := db.First(&brand, "brand_id = ?", brandID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Brand does not exist"})
			return
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			if stock, err = strconv.Atoi(stockStr); err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		status := models.ProductStatusActive
		if s := c.PostForm("status"); s != "" {
			if s != string(models.ProductStatusActive) && s != string(models.ProductStatusInactive) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			status = models.ProductStatus(s)
		}

		var imageURL string
		if file, err := c.FormFile("image"); err == nil {
			imageURL, err = saveProductImage(c, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		product := models.Product{
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Status:      status,
			Image:       imageURL,
			CategoryID:  uint(categoryID),
			BrandID:     uint(brandID),
			Stock:       stock,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
