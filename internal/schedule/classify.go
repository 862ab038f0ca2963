package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"maintenance-tracker-backend/internal/model"
)

// Status is the urgency bucket assigned to a machine for the detail view.
type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusDue      Status = "due"
	StatusUpcoming Status = "upcoming"
	StatusGood     Status = "good"
)

// ErrUnknownCadence is returned when a schedule's authoritative tag has no
// entry in the cadence table. The caller decides the display fallback rather
// than this package silently substituting "now".
var ErrUnknownCadence = errors.New("unknown cadence tag")

// DefaultGraceDays is the grace period applied to machines that have never
// been maintained and have no usable schedule: the first maintenance falls
// due this many days after purchase.
const DefaultGraceDays = 30

// Classification is the detail-view result for a single machine.
type Classification struct {
	Status              Status    `json:"status"`
	DaysUntil           int       `json:"days_until"`            // negative when overdue
	OverdueBy           int       `json:"overdue_by"`            // magnitude, 0 unless overdue
	NextMaintenanceDate time.Time `json:"next_maintenance_date"`
}

// Classify derives a machine's urgency bucket for the detail view.
//
// Resolution order for the next maintenance date: a cached value on the
// record wins; otherwise lastMaintenanceDate plus the first cadence tag;
// otherwise purchaseDate (defaulting to now) plus the grace period.
func Classify(rec *model.MachineRecord, now time.Time) (Classification, error) {
	next, err := nextMaintenanceDate(rec, now)
	if err != nil {
		return Classification{}, err
	}

	daysUntil := int(math.Ceil(next.Sub(now).Hours() / 24))

	c := Classification{DaysUntil: daysUntil, NextMaintenanceDate: next}
	switch {
	case daysUntil < 0:
		c.Status = StatusOverdue
		c.OverdueBy = -daysUntil
	case daysUntil <= 7:
		c.Status = StatusDue
	case daysUntil <= 30:
		c.Status = StatusUpcoming
	default:
		c.Status = StatusGood
	}
	return c, nil
}

func nextMaintenanceDate(rec *model.MachineRecord, now time.Time) (time.Time, error) {
	if rec.NextMaintenanceDate != nil && !rec.NextMaintenanceDate.IsZero() {
		return *rec.NextMaintenanceDate, nil
	}

	if rec.LastMaintenanceDate != nil && !rec.LastMaintenanceDate.IsZero() {
		if tag, ok := rec.FirstCadence(); ok {
			days, known := CadenceDays(tag)
			if !known {
				return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownCadence, tag)
			}
			return rec.LastMaintenanceDate.AddDate(0, 0, days), nil
		}
	}

	purchase := now
	if rec.PurchaseDate != nil && !rec.PurchaseDate.IsZero() {
		purchase = *rec.PurchaseDate
	}
	return purchase.AddDate(0, 0, DefaultGraceDays), nil
}
