package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"maintenance-tracker-backend/internal/maintenance"
	"maintenance-tracker-backend/internal/model"
	"maintenance-tracker-backend/internal/mw"
	"maintenance-tracker-backend/internal/schedule"
	"maintenance-tracker-backend/internal/store"
)

type createMachineRequest struct {
	MachineName         string     `json:"machine_name" binding:"required"`
	MachineBrand        string     `json:"machine_brand"`
	MachineModel        string     `json:"machine_model"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	MaintenanceSchedule []string   `json:"maintenance_schedule"`
	MaintenanceTypes    []string   `json:"maintenance_types"`
}

type updateMachineRequest struct {
	MachineName         *string    `json:"machine_name"`
	MachineBrand        *string    `json:"machine_brand"`
	MachineModel        *string    `json:"machine_model"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	MaintenanceSchedule []string   `json:"maintenance_schedule"`
	MaintenanceTypes    []string   `json:"maintenance_types"`
	Status              *string    `json:"status"`
}

// machineListItem is one row of the machine list view.
type machineListItem struct {
	model.MachineRecord
	ListStatus schedule.ListClassification `json:"list_status"`
}

// machineDetail is the single-machine response with the detail
// classification attached. When the schedule cannot be classified the
// classification is omitted and the reason reported, leaving the display
// fallback to the client.
type machineDetail struct {
	model.MachineRecord
	Classification      *schedule.Classification `json:"classification,omitempty"`
	ClassificationError string                   `json:"classification_error,omitempty"`
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	userID := mw.UserIDFromContext(c)
	now := time.Now()

	records := h.store.List(userID)
	items := make([]machineListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, machineListItem{
			MachineRecord: rec,
			ListStatus:    schedule.ClassifyList(&rec, now),
		})
	}
	c.JSON(http.StatusOK, items)
}

// CreateMachine handles POST /api/machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := model.MachineRecord{
		UserID:              mw.UserIDFromContext(c),
		MachineName:         req.MachineName,
		MachineBrand:        req.MachineBrand,
		MachineModel:        req.MachineModel,
		PurchaseDate:        req.PurchaseDate,
		MaintenanceSchedule: req.MaintenanceSchedule,
		MaintenanceTypes:    req.MaintenanceTypes,
	}

	added, err := h.store.Add(c.Request.Context(), rec)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	rec, ok := h.ownedMachine(c)
	if !ok {
		return
	}

	detail := machineDetail{MachineRecord: rec}
	if cls, err := schedule.Classify(&rec, time.Now()); err != nil {
		detail.ClassificationError = err.Error()
	} else {
		detail.Classification = &cls
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateMachine handles PATCH /api/machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	if _, ok := h.ownedMachine(c); !ok {
		return
	}

	var req updateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), c.Param("id"), store.UpdateFields{
		MachineName:         req.MachineName,
		MachineBrand:        req.MachineBrand,
		MachineModel:        req.MachineModel,
		PurchaseDate:        req.PurchaseDate,
		MaintenanceSchedule: req.MaintenanceSchedule,
		MaintenanceTypes:    req.MaintenanceTypes,
		Status:              req.Status,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMachine handles DELETE /api/machines/:id. Deleting a machine also
// removes its maintenance history.
func (h *Handler) DeleteMachine(c *gin.Context) {
	if _, ok := h.ownedMachine(c); !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpcomingDue handles GET /api/machines/upcoming.
func (h *Handler) UpcomingDue(c *gin.Context) {
	due := h.svc.UpcomingDue(mw.UserIDFromContext(c))
	if due == nil {
		due = []maintenance.DueMachine{}
	}
	c.JSON(http.StatusOK, due)
}

// ownedMachine fetches the path machine and enforces that it belongs to the
// authenticated user. Foreign machines report 404, not 403, so record ids
// are not probeable.
func (h *Handler) ownedMachine(c *gin.Context) (model.MachineRecord, bool) {
	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return model.MachineRecord{}, false
	}
	if rec.UserID != mw.UserIDFromContext(c) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "machine not found"})
		return model.MachineRecord{}, false
	}
	return rec, true
}
