package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/omnisaude/saude-api/internal/repository"
	"github.com/omnisaude/saude-api/pkg/metrics"
)

type eventRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type patientRepository struct {
	db *sqlx.DB
}

type professionalRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB, m *metrics.Metrics) repository.EventRepository {
	return &eventRepository{db: db, metrics: m}
}

// observe records one gateway call on the database metrics. Nil metrics
// (tests, tools) are a no-op.
func (r *eventRepository) observe(op string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, "health_events").Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op, "health_events").Observe(time.Since(start).Seconds())
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &professionalRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}
