package orderControllers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const slipPublicPath = "/uploads/slips"

const maxSlipSize = 5 << 20 // 5MB

func slipUploadDir() string {
	base := os.Getenv("UPLOAD_DIR")
	if base == "" {
		base = "./uploads"
	}
	return filepath.Join(base, "slips")
}

// validateSlip enforces the bank-slip attachment rules: image MIME type and
// size cap.
func validateSlip(file *multipart.FileHeader) error {
	if file.Size > maxSlipSize {
		return fmt.Errorf("payment slip exceeds 5MB")
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("payment slip must be an image")
	}
	return nil
}

// saveSlip stores the uploaded slip and returns its public URL path.
func saveSlip(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dir := slipUploadDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save payment slip: %w", err)
	}
	return fmt.Sprintf("%s/%s", slipPublicPath, filename), nil
}

// removeSlip deletes a stored slip file, ignoring a missing file.
func removeSlip(publicURL string) {
	if publicURL == "" {
		return
	}
	name := filepath.Base(publicURL)
	if err := os.Remove(filepath.Join(slipUploadDir(), name)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove slip %s: %v", name, err)
	}
}
