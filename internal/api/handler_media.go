package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"maintenance-tracker-backend/internal/retry"
)

var allowedMediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".m4a":  true,
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
}

// UploadMedia handles POST /api/media: multipart photo or voice-note
// attachments for maintenance records. Files are stored under the media
// directory with generated names; the write goes through the bounded retry
// policy so a transient disk error does not lose the upload.
func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if file.Size > h.media.MaxUploadMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d MB limit", h.media.MaxUploadMB)})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedMediaExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q", ext)})
		return
	}

	id := uuid.NewString()
	name := id + ext
	dest := filepath.Join(h.media.Dir, name)

	if err := os.MkdirAll(h.media.Dir, 0o755); err != nil {
		logrus.WithError(err).Error("failed to create media directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	err = retry.Do(c.Request.Context(), retry.DefaultPolicy, func() error {
		return c.SaveUploadedFile(file, dest)
	})
	if err != nil {
		logrus.WithError(err).WithField("file", name).Error("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       id,
		"filename": name,
		"size":     file.Size,
	})
}
