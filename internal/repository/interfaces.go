package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/omnisaude/saude-api/internal/model"
)

// All repository interfaces in one file
type (
	// EventRepository is the persistence gateway for health events.
	// FindByDateAndProfessional scopes the conflict query to a single
	// professional and calendar date; excludeID, when set, is filtered
	// out server-side.
	EventRepository interface {
		Create(ctx context.Context, event *model.HealthEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.HealthEvent, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.UpdateEventRequest) (*model.HealthEvent, error)
		Delete(ctx context.Context, id uuid.UUID) error
		FindByDateAndProfessional(ctx context.Context, date string, professionalID uuid.UUID, excludeID *uuid.UUID) ([]*model.HealthEvent, error)
		FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.HealthEvent, error)
		FindByDate(ctx context.Context, date string) ([]*model.HealthEvent, error)
		AddFile(ctx context.Context, file *model.EventFile) error
		GetFiles(ctx context.Context, eventID uuid.UUID) ([]*model.EventFile, error)
		DeleteFile(ctx context.Context, fileID uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	ProfessionalRepository interface {
		Create(ctx context.Context, professional *model.Professional) error
		Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		Update(ctx context.Context, professional *model.Professional) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Update(ctx context.Context, notification *model.Notification) error
		ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}
)
