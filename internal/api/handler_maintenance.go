package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker-backend/internal/model"
)

type completeMaintenanceRequest struct {
	Notes string `json:"notes"`
}

// CompleteMaintenance handles POST /api/machines/:id/complete. It records
// the completion, appends the history snapshot and returns the updated
// record.
func (h *Handler) CompleteMaintenance(c *gin.Context) {
	if _, ok := h.ownedMachine(c); !ok {
		return
	}

	var req completeMaintenanceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rec, err := h.svc.Complete(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetHistory handles GET /api/machines/:id/history.
func (h *Handler) GetHistory(c *gin.Context) {
	if _, ok := h.ownedMachine(c); !ok {
		return
	}

	history := h.store.History(c.Param("id"))
	if history == nil {
		history = []model.MaintenanceRecord{}
	}
	c.JSON(http.StatusOK, history)
}
