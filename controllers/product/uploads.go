package productController

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const productPublicPath = "/uploads/products"

func uploadDir() string {
	base := os.Getenv("UPLOAD_DIR")
	if base == "" {
		base = "./uploads"
	}
	return filepath.Join(base, "products")
}

// saveProductImage stores an uploaded image under the products upload folder
// and returns its public URL path.
func saveProductImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dir := uploadDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%s_%s%s", uuid.NewString(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/%s", productPublicPath, filename), nil
}
