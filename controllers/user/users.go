package userControllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SajanaWickramarathna/CSdrop-sub000/middleware"
	"github.com/SajanaWickramarathna/CSdrop-sub000/models"
)

const profilePublicPath = "/uploads/profiles"

func profileUploadDir() string {
	base := os.Getenv("UPLOAD_DIR")
	if base == "" {
		base = "./uploads"
	}
	return filepath.Join(base, "profiles")
}

func saveProfilePic(c *gin.Context) (string, error) {
	file, err := c.FormFile("profilePic")
	if err != nil {
		return "", nil // picture is optional
	}

	dir := profileUploadDir()
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
	return fmt.Sprintf("%s/%s", profilePublicPath, filename), nil
}

// GET /api/users/me
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /api/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{}).Order("created_at desc")
		if role := c.Query("role"); role != "" {
			if !models.ValidRole(role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			query = query.Where("role = ?", role)
		}

		var users []models.User
		if err := query.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GET /api/users/user/:id
func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "user_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /api/users/create
//
// Admin-side "add user" with an explicit role.
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		firstname := c.PostForm("firstname")
		email := c.PostForm("email")
		password := c.PostForm("password")
		role := c.PostForm("role")
		if firstname == "" || email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "firstname, email, and password are required"})
			return
		}
		if role == "" {
			role = string(models.RoleCustomer)
		}
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		picURL, err := saveProfilePic(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			FirstName:  firstname,
			LastName:   c.PostForm("lastname"),
			Email:      email,
			Password:   string(hash),
			Phone:      c.PostForm("phone"),
			Address:    c.PostForm("address"),
			ProfilePic: picURL,
			Role:       models.Role(role),
			Status:     models.UserStatusActive,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if user.Role == models.RoleCustomer {
				return tx.Create(&models.Cart{UserID: user.UserID}).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// PUT /api/users/update
//
// Multipart form; the authenticated user updates their own profile.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		updates := make(map[string]interface{})
		if v := c.PostForm("firstname"); v != "" {
			updates["first_name"] = v
		}
		if v := c.PostForm("lastname"); v != "" {
			updates["last_name"] = v
		}
		if v := c.PostForm("phone"); v != "" {
			updates["phone"] = v
		}
		if v := c.PostForm("address"); v != "" {
			updates["address"] = v
		}
		if v := c.PostForm("password"); v != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			updates["password"] = string(hash)
		}
		picURL, err := saveProfilePic(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if picURL != "" {
			updates["profile_pic"] = picURL
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}

// DELETE /api/users/delete/:id
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "user_id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", user.UserID).First(&cart).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&cart).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
