package model

import (
	"github.com/google/uuid"
)

// LabSubmission is the payload accepted by the lab-result endpoint.
// Validated with go-playground/validator before anything touches storage.
type LabSubmission struct {
	EventID     uuid.UUID `json:"event_id" validate:"required"`
	LabName     string    `json:"lab_name" validate:"required,max=200"`
	ReportName  string    `json:"report_name" validate:"required,max=200"`
	ReportURL   string    `json:"report_url" validate:"required,url"`
	Observation string    `json:"observation" validate:"max=2000"`
}
