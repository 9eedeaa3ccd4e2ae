package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification channels
const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
)

// Notification is one entry in a user's notification feed.
type Notification struct {
	Base
	UserID    uuid.UUID          `db:"user_id" json:"user_id"`
	Channel   string             `db:"channel" json:"channel"`
	Type      string             `db:"type" json:"type"`
	Title     string             `db:"title" json:"title"`
	Message   string             `db:"message" json:"message"`
	Recipient string             `db:"recipient" json:"recipient,omitempty"`
	Read      bool               `db:"read" json:"read"`
	Status    NotificationStatus `db:"status" json:"status"`
	SentAt    *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
}

// NotificationEvent is the payload published on the feed channel.
type NotificationEvent struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
