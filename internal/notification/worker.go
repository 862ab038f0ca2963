package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"maintenance-tracker-backend/internal/model"
	"maintenance-tracker-backend/internal/retry"
	"maintenance-tracker-backend/internal/schedule"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job is one reminder to deliver: a machine of a user that is due or
// overdue for maintenance.
type Job struct {
	UserID      string
	MachineID   string
	MachineName string
	Status      schedule.Status
	Days        int // days until due, or days overdue
}

// WorkerPool manages a pool of workers delivering reminder notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
	log     *logrus.Entry
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     logrus.WithField("component", "notification"),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.WithField("worker", id).Debug("worker started")
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			wp.log.WithField("worker", id).Debug("worker shutting down")
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// deliver fetches the user's subscriptions and sends the reminder to each.
func (wp *WorkerPool) deliver(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", job.UserID).
		Find(&subscriptions).Error
	if err != nil {
		wp.log.WithError(err).WithField("user_id", job.UserID).Error("failed to fetch subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload := []byte(reminderMessage(job))
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

// reminderMessage renders the human-readable reminder text for a job.
func reminderMessage(job Job) string {
	name := job.MachineName
	if name == "" {
		name = job.MachineID
	}
	if job.Status == schedule.StatusOverdue {
		return fmt.Sprintf("%s is overdue for maintenance by %d day(s)", name, job.Days)
	}
	if job.Days <= 0 {
		return fmt.Sprintf("%s is due for maintenance today", name)
	}
	return fmt.Sprintf("%s is due for maintenance in %d day(s)", name, job.Days)
}

// send delivers a single web push notification, retrying transient failures
// with the bounded backoff policy. Expired subscriptions are deleted.
func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	var gone bool
	err := retry.Do(ctx, retry.DefaultPolicy, func() error {
		resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusGone {
			gone = true
			return nil
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("push service returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		wp.log.WithError(err).WithField("endpoint", sub.Endpoint).Error("failed to send notification")
		return
	}

	if gone {
		wp.log.WithField("endpoint", sub.Endpoint).Info("subscription expired, deleting")
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			wp.log.WithError(err).WithField("endpoint", sub.Endpoint).Error("failed to delete expired subscription")
		}
	}
}
