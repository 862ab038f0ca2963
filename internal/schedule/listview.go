package schedule

import (
	"time"

	"maintenance-tracker-backend/internal/model"
)

// ListStatus is the coarser urgency bucket used by the machine list view.
type ListStatus string

const (
	ListStatusNew     ListStatus = "new"
	ListStatusOverdue ListStatus = "overdue"
	ListStatusUrgent  ListStatus = "urgent"
	ListStatusOnTime  ListStatus = "on-time"
)

// ListClassification is the list-view result for a single machine.
type ListClassification struct {
	Status    ListStatus `json:"status"`
	DaysSince int        `json:"days_since"` // days since last maintenance
	OverdueBy int        `json:"overdue_by"` // days past the cadence, 0 unless overdue
	DaysLeft  int        `json:"days_left"`  // days until the cadence elapses, 0 when overdue
}

// listRank orders list statuses by urgency so that multi-cadence schedules
// surface their worst bucket.
var listRank = map[ListStatus]int{
	ListStatusOnTime:  0,
	ListStatusUrgent:  1,
	ListStatusOverdue: 2,
}

// ClassifyList derives the list-view bucket for a machine, keyed off days
// since the last maintenance per cadence tag. A machine never maintained is
// always "new", never overdue on its first day. Unknown cadence tags are
// skipped; a schedule with no usable tags classifies as on-time.
//
// The urgent window is derived from the cadence table (one sixth of the
// cadence, truncated): weekly turns urgent one day early, monthly five days
// early, and daily has no urgent window at all.
func ClassifyList(rec *model.MachineRecord, now time.Time) ListClassification {
	if rec.LastMaintenanceDate == nil || rec.LastMaintenanceDate.IsZero() {
		return ListClassification{Status: ListStatusNew}
	}

	daysSince := int(now.Sub(*rec.LastMaintenanceDate).Hours() / 24)
	if daysSince < 0 {
		daysSince = 0
	}

	result := ListClassification{Status: ListStatusOnTime, DaysSince: daysSince}
	seen := false
	for _, tag := range rec.MaintenanceSchedule {
		cadence, ok := CadenceDays(tag)
		if !ok {
			continue
		}

		c := ListClassification{DaysSince: daysSince}
		switch {
		case daysSince >= cadence:
			c.Status = ListStatusOverdue
			c.OverdueBy = daysSince - cadence
		case daysSince >= cadence-cadence/6 && cadence > 1:
			c.Status = ListStatusUrgent
			c.DaysLeft = cadence - daysSince
		default:
			c.Status = ListStatusOnTime
			c.DaysLeft = cadence - daysSince
		}

		if !seen || worseThan(c, result) {
			result = c
			seen = true
		}
	}
	return result
}

// worseThan reports whether a is more urgent than b.
func worseThan(a, b ListClassification) bool {
	if listRank[a.Status] != listRank[b.Status] {
		return listRank[a.Status] > listRank[b.Status]
	}
	if a.Status == ListStatusOverdue {
		return a.OverdueBy > b.OverdueBy
	}
	return a.DaysLeft < b.DaysLeft
}
