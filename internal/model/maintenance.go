package model

import "time"

// MaintenanceRecord is the historical log entry created exactly once per
// completion event. It is never mutated afterwards and is removed only when
// its owning machine is deleted.
type MaintenanceRecord struct {
	ID                  string     `json:"id"`
	MachineID           string     `json:"machine_id"`
	UserID              string     `json:"user_id"`
	MaintenanceDate     time.Time  `json:"maintenance_date"`
	MaintenanceTypes    []string   `json:"maintenance_types"`
	Notes               string     `json:"notes"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`
	CompletedAt         time.Time  `json:"completed_at"`
	Status              string     `json:"status"`
}
