package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"maintenance-tracker-backend/config"
	"maintenance-tracker-backend/internal/auth"
	"maintenance-tracker-backend/internal/maintenance"
	"maintenance-tracker-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	db      *gorm.DB
	store   *store.MachineStore
	svc     *maintenance.Service
	auth    *auth.Service
	webpush *webpush.Options
	media   config.MediaConfig
}

// NewHandler creates a new API handler.
func NewHandler(db *gorm.DB, st *store.MachineStore, svc *maintenance.Service, authSvc *auth.Service, webpushOptions *webpush.Options, media config.MediaConfig) *Handler {
	return &Handler{
		db:      db,
		store:   st,
		svc:     svc,
		auth:    authSvc,
		webpush: webpushOptions,
		media:   media,
	}
}

// abortStoreError maps record-store errors onto HTTP statuses, so callers
// can tell "not found" apart from a storage failure.
func abortStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "machine not found"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}
