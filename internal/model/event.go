package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeConsultation EventType = "CONSULTATION"
	EventTypeExam         EventType = "EXAM"
)

// HealthEvent represents one scheduled occurrence for a professional.
// Date is the partition key for conflict checking; StartTime/EndTime are
// HH:MM strings forming the half-open interval [StartTime, EndTime).
type HealthEvent struct {
	Base
	UserID         uuid.UUID   `db:"user_id" json:"user_id"`
	ProfessionalID uuid.UUID   `db:"professional_id" json:"professional_id"`
	Date           string      `db:"date" json:"date"`
	StartTime      string      `db:"start_time" json:"start_time"`
	EndTime        string      `db:"end_time" json:"end_time"`
	Type           EventType   `db:"type" json:"type"`
	Title          string      `db:"title" json:"title,omitempty"`
	Description    string      `db:"description" json:"description,omitempty"`
	Files          []EventFile `db:"-" json:"files"`
}

// EventFile is an attachment descriptor stored alongside an event.
type EventFile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	PublicID  string    `db:"public_id" json:"public_id,omitempty"`
	Size      int64     `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateEventRequest struct {
	ID             *uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID  `json:"professional_id" binding:"required"`
	Date           string     `json:"date" binding:"required"`
	StartTime      string     `json:"start_time" binding:"required"`
	EndTime        string     `json:"end_time" binding:"required"`
	Type           EventType  `json:"type" binding:"required,oneof=CONSULTATION EXAM"`
	Title          string     `json:"title" binding:"max=200"`
	Description    string     `json:"description" binding:"max=2000"`
}

// UpdateEventRequest is a partial patch; nil fields keep current values.
// Date and professional are not mutable through this path.
type UpdateEventRequest struct {
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	Type        *EventType `json:"type" binding:"omitempty,oneof=CONSULTATION EXAM"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
}

// EventFilters scopes event listing; all fields optional.
type EventFilters struct {
	HasFiles bool `form:"has_files"`
}
