package brandController

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

const brandPublicPath = "/uploads/brands"

func brandUploadDir() string {
	base := os.Getenv("UPLOAD_DIR")
	if base == "" {
		base = "./uploads"
	}
	return filepath.Join(base, "brands")
}

func saveBrandImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // image is optional
	}

	dir := brandUploadDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/%s", brandPublicPath, filename), nil
}

// GET /api/brands
func GetAllBrands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brands []models.Brand
		if err := db.Order("name asc").Find(&brands).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brands"})
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

// GET /api/brands/brand/:id
func GetBrandByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brand models.Brand
		if err := db.First(&brand, "brand_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
			return
		}
		c.JSON(http.StatusOK, brand)
	}
}

// POST /api/brands/create
func CreateBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		imageURL, err := saveBrandImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		brand := models.Brand{
			Name:        name,
			Description: c.PostForm("description"),
			Image:       imageURL,
		}
		if err := db.Create(&brand).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create brand"})
			return
		}
		c.JSON(http.StatusCreated, brand)
	}
}

// PUT /api/brands/update/:id
func UpdateBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brand models.Brand
		if err := db.First(&brand, "brand_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
			return
		}

		updates := make(map[string]interface{})
		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if desc := c.PostForm("description"); desc != "" {
			updates["description"] = desc
		}
		imageURL, err := saveBrandImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if imageURL != "" {
			updates["image"] = imageURL
		}

		if len(updates) > 0 {
			if err := db.Model(&brand).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update brand"})
				return
			}
		}
		c.JSON(http.StatusOK, brand)
	}
}

// DELETE /api/brands/delete/:id
func DeleteBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brand models.Brand
		if err := db.First(&brand, "brand_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
			return
		}

		var count int64
		db.Model(&models.Product{}).Where("brand_id = ?", brand.BrandID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Brand has products and cannot be deleted"})
			return
		}

		if err := db.Delete(&brand).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete brand"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Brand deleted"})
	}
}
