package model

import "time"

// MaintenanceNote is a single entry in a machine's append-only note log.
type MaintenanceNote struct {
	Text                string     `json:"text"`
	Date                time.Time  `json:"date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`
}

// MachineRecord represents a user-owned machine and its maintenance state.
// Records are persisted as part of a JSON-serialized collection blob, so the
// struct carries JSON tags rather than GORM column definitions.
type MachineRecord struct {
	ID                  string            `json:"id"`
	UserID              string            `json:"user_id"`
	MachineName         string            `json:"machine_name"`
	MachineBrand        string            `json:"machine_brand"`
	MachineModel        string            `json:"machine_model"`
	PurchaseDate        *time.Time        `json:"purchase_date,omitempty"`
	LastMaintenanceDate *time.Time        `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time        `json:"next_maintenance_date,omitempty"`
	MaintenanceSchedule []string          `json:"maintenance_schedule"`
	MaintenanceTypes    []string          `json:"maintenance_types"`
	MaintenanceNotes    []MaintenanceNote `json:"maintenance_notes"`
	Status              string            `json:"status"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// FirstCadence returns the authoritative cadence tag for next-date
// computation. When a schedule carries more than one tag only the first is
// used; see the store documentation for the multi-cadence caveat.
func (m *MachineRecord) FirstCadence() (string, bool) {
	if len(m.MaintenanceSchedule) == 0 {
		return "", false
	}
	return m.MaintenanceSchedule[0], true
}
