package reminder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"maintenance-tracker-backend/config"
	"maintenance-tracker-backend/internal/maintenance"
	"maintenance-tracker-backend/internal/notification"
)

// Service periodically scans the record store for machines that are due or
// overdue and dispatches reminder jobs to the notification worker pool.
type Service struct {
	cfg        *config.ReminderConfig
	svc        *maintenance.Service
	workerPool *notification.WorkerPool
	log        *logrus.Entry
}

// NewService creates a reminder scanner.
func NewService(cfg *config.ReminderConfig, svc *maintenance.Service, pool *notification.WorkerPool) *Service {
	return &Service{
		cfg:        cfg,
		svc:        svc,
		workerPool: pool,
		log:        logrus.WithField("component", "reminder"),
	}
}

// Run starts the scan loop. It blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("reminder scanner is disabled, not starting")
		return
	}
	s.log.WithField("interval", s.cfg.Interval).Info("starting reminder scanner")

	s.workerPool.Start(ctx)

	s.ScanOnce()

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scanner shutting down")
			return
		case <-timer.C:
			s.ScanOnce()
			timer.Reset(s.cfg.Interval)
		}
	}
}

// ScanOnce performs a single scan over all users' machines and dispatches a
// reminder job for every machine that is due or overdue.
func (s *Service) ScanOnce() {
	due := s.svc.DueForReminder("")
	if len(due) == 0 {
		return
	}

	s.log.WithField("count", len(due)).Info("dispatching maintenance reminders")
	for _, d := range due {
		s.workerPool.Dispatch(notification.Job{
			UserID:      d.Record.UserID,
			MachineID:   d.Record.ID,
			MachineName: d.Record.MachineName,
			Status:      d.Classification.Status,
			Days:        reminderDays(d),
		})
	}
}

func reminderDays(d maintenance.DueMachine) int {
	if d.Classification.OverdueBy > 0 {
		return d.Classification.OverdueBy
	}
	return d.Classification.DaysUntil
}
