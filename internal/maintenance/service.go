package maintenance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"maintenance-tracker-backend/internal/model"
	"maintenance-tracker-backend/internal/schedule"
	"maintenance-tracker-backend/internal/store"
)

// DefaultNoteText is recorded when a completion carries no free-text notes.
const DefaultNoteText = "Maintenance completed"

// Service implements the maintenance completion workflow and the due-date
// queries on top of the record store.
type Service struct {
	store *store.MachineStore
	clock store.Clock
	log   *logrus.Entry
}

// NewService creates a maintenance service. A nil clock defaults to time.Now.
func NewService(st *store.MachineStore, clock store.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store: st,
		clock: clock,
		log:   logrus.WithField("component", "maintenance"),
	}
}

// Complete records that a machine's maintenance was performed now and
// schedules the next occurrence. It appends an immutable history snapshot,
// appends a note entry to the record and updates the record's last/next
// maintenance dates in one store transaction. Returns store.ErrNotFound when
// the machine does not exist.
func (s *Service) Complete(ctx context.Context, machineID, notes string) (model.MachineRecord, error) {
	rec, err := s.store.Get(machineID)
	if err != nil {
		return model.MachineRecord{}, err
	}

	now := s.clock()
	next := s.nextFromNow(rec, now)

	noteText := notes
	if noteText == "" {
		noteText = DefaultNoteText
	}

	typesSnapshot := append([]string(nil), rec.MaintenanceTypes...)
	entry := model.MaintenanceRecord{
		ID:                  uuid.NewString(),
		MachineID:           rec.ID,
		UserID:              rec.UserID,
		MaintenanceDate:     now,
		MaintenanceTypes:    typesSnapshot,
		Notes:               noteText,
		NextMaintenanceDate: &next,
		CompletedAt:         now,
		Status:              "completed",
	}

	rec.MaintenanceNotes = append(rec.MaintenanceNotes, model.MaintenanceNote{
		Text:                noteText,
		Date:                now,
		NextMaintenanceDate: &next,
	})
	rec.LastMaintenanceDate = &now
	rec.NextMaintenanceDate = &next
	rec.UpdatedAt = now

	if err := s.store.RecordCompletion(ctx, rec, entry); err != nil {
		return model.MachineRecord{}, err
	}
	return rec, nil
}

// nextFromNow computes the next maintenance date from the completion time
// and the first cadence tag. With no usable schedule the machine is due
// immediately, so the next date is the completion time itself.
func (s *Service) nextFromNow(rec model.MachineRecord, now time.Time) time.Time {
	tag, ok := rec.FirstCadence()
	if !ok {
		return now
	}
	days, known := schedule.CadenceDays(tag)
	if !known {
		s.log.WithFields(logrus.Fields{
			"machine_id": rec.ID,
			"cadence":    tag,
		}).Warn("unknown cadence tag, scheduling as due immediately")
		return now
	}
	return now.AddDate(0, 0, days)
}

// DueMachine pairs a machine record with its detail classification.
type DueMachine struct {
	Record         model.MachineRecord     `json:"record"`
	Classification schedule.Classification `json:"classification"`
}

// UpcomingDue returns the user's machines whose maintenance is due or
// upcoming, soonest first. Records whose schedule cannot be classified are
// skipped and logged rather than failing the whole listing.
func (s *Service) UpcomingDue(userID string) []DueMachine {
	return s.selectByStatus(userID, schedule.StatusDue, schedule.StatusUpcoming)
}

// DueForReminder returns the machines that should trigger a reminder:
// everything due or already overdue.
func (s *Service) DueForReminder(userID string) []DueMachine {
	return s.selectByStatus(userID, schedule.StatusOverdue, schedule.StatusDue)
}

func (s *Service) selectByStatus(userID string, statuses ...schedule.Status) []DueMachine {
	now := s.clock()

	var out []DueMachine
	for _, rec := range s.store.List(userID) {
		c, err := schedule.Classify(&rec, now)
		if err != nil {
			s.log.WithError(err).WithField("machine_id", rec.ID).
				Warn("skipping unclassifiable machine")
			continue
		}
		for _, want := range statuses {
			if c.Status == want {
				out = append(out, DueMachine{Record: rec, Classification: c})
				break
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Classification.NextMaintenanceDate.Before(out[j].Classification.NextMaintenanceDate)
	})
	return out
}
