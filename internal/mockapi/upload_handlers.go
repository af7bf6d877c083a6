// internal/mockapi/upload_handlers.go
package mockapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleUploadImage handles POST /api/images/upload (admin, multipart)
func (s *Server) handleUploadImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(s.config.Upload.MaxSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to parse upload form",
		})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No image file provided",
		})
		return
	}
	defer file.Close()

	if header.Size > s.config.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File exceeds maximum size of %d bytes", s.config.Upload.MaxSize),
		})
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !s.extensionAllowed(ext) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File extension %q is not allowed", ext),
		})
		return
	}

	if err := os.MkdirAll(s.config.Upload.LocalPath, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to prepare upload directory",
		})
		return
	}

	name := uuid.NewString() + "." + ext
	dest := filepath.Join(s.config.Upload.LocalPath, name)
	if err := c.SaveUploadedFile(header, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store uploaded file",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{"url": "/uploads/" + name},
	})
}

func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
