package utils

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20 // 5 MB

var ErrNoFile = errors.New("no file uploaded")

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// SaveImage stores an uploaded image under <uploadDir>/<subdir> and returns
// the public URL path. Only jpeg/jpg/png up to 5 MB are accepted.
// Returns ErrNoFile when the form field is absent.
func SaveImage(c *gin.Context, field, uploadDir, subdir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", ErrNoFile
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errors.New("only jpeg, jpg and png images are allowed")
	}
	if file.Size > MaxImageSize {
		return "", errors.New("image exceeds the 5MB size limit")
	}

	saveDir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return "", err
	}

	filename := time.Now().Format("2006-01-02") + "-" + uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", err
	}

	return "/uploads/" + subdir + "/" + filename, nil
}
