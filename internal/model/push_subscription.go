package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Subscriptions are keyed by endpoint and owned by a user; reminder
// notifications for a due machine go to every subscription of its owner.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	UserID    string    `gorm:"index;size:64;not null" json:"user_id"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
