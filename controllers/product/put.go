package productController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

// PUT /api/products/update/:id
//
// Multipart form; only supplied fields are updated.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "product_id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		updates := make(map[string]interface{})

		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if desc := c.PostForm("description"); desc != "" {
			updates["description"] = desc
		}
		if priceStr := c.PostForm("price"); priceStr != "" {
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err := strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			updates["stock"] = stock
		}
		if s := c.PostForm("status"); s != "" {
			if s != string(models.ProductStatusActive) && s != string(models.ProductStatusInactive) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			updates["status"] = s
		}
		if cidStr := c.PostForm("category_id"); cidStr != "" {
			cid, err := strconv.ParseUint(cidStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			var category models.Category
			if err := db.First(&category, "category_id = ?", cid).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			updates["category_id"] = uint(cid)
		}
		if bidStr := c.PostForm("brand_id"); bidStr != "" {
			bid, err := strconv.ParseUint(bidStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brand_id"})
				return
			}
			var brand models.Brand
			if err := db.First(&brand, "brand_id = ?", bid).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Brand does not exist"})
				return
			}
			updates["brand_id"] = uint(bid)
		}

		if file, err := c.FormFile("image"); err == nil {
			imageURL, err := saveProductImage(c, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates["image"] = imageURL
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		c.JSON(http.StatusOK, product)
	}
}
