package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/repository"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
	"github.com/omnisaude/saude-api/pkg/metrics"
	"github.com/omnisaude/saude-api/pkg/storage"
)

// Notifier publishes feed entries for event lifecycle changes. Delivery
// failures never fail the originating operation.
type Notifier interface {
	Send(ctx context.Context, notification *model.Notification) error
}

// Service validates scheduling invariants before delegating to the
// persistence gateway: for a given professional and date, no two events'
// [start, end) intervals may overlap. Each call is one read followed
// conditionally by one write; there is no locking around the pair, so
// two concurrent creates can still race past the check.
type Service struct {
	repo     repository.EventRepository
	store    storage.ObjectStore
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewService(repo repository.EventRepository, store storage.ObjectStore, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateEvent checks the candidate against every stored event for the
// same professional and date, then delegates creation. An explicit ID on
// the candidate marks an idempotent replay and never conflicts with the
// stored event carrying the same ID.
func (s *Service) CreateEvent(ctx context.Context, ev *model.HealthEvent) (*model.HealthEvent, error) {
	candidate, err := parseInterval(ev.StartTime, ev.EndTime)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	existing, err := s.repo.FindByDateAndProfessional(ctx, ev.Date, ev.ProfessionalID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for %s: %w", ev.Date, err)
	}

	if conflict := findConflict(existing, candidate, ev.ID); conflict != nil {
		if s.metrics != nil {
			s.metrics.SchedulingConflicts.WithLabelValues("create").Inc()
		}
		return nil, apperrors.Conflict("overlap", nil)
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EventsCreated.Inc()
	}

	s.notify(ctx, ev, "event_created", "Evento agendado")
	return ev, nil
}

// UpdateEvent applies a partial patch after re-checking the conflict
// invariant with the effective interval: a patched field wins, an
// unpatched one keeps its current persisted value. The record being
// updated is excluded from the conflict query server-side.
func (s *Service) UpdateEvent(ctx context.Context, id uuid.UUID, patch *model.UpdateEventRequest) (*model.HealthEvent, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("event", err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	newStart := current.StartTime
	newEnd := current.EndTime
	if patch.StartTime != nil {
		newStart = *patch.StartTime
	}
	if patch.EndTime != nil {
		newEnd = *patch.EndTime
	}

	candidate, err := parseInterval(newStart, newEnd)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	existing, err := s.repo.FindByDateAndProfessional(ctx, current.Date, current.ProfessionalID, &id)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for %s: %w", current.Date, err)
	}

	if conflict := findConflict(existing, candidate, uuid.Nil); conflict != nil {
		if s.metrics != nil {
			s.metrics.SchedulingConflicts.WithLabelValues("update").Inc()
		}
		return nil, apperrors.Conflict("overlap", nil)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EventsUpdated.Inc()
	}

	s.notify(ctx, updated, "event_updated", "Evento atualizado")
	return updated, nil
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*model.HealthEvent, error) {
	ev, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("event", err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes the record without re-checking conflicts. When
// removeFiles is set, stored attachments are deleted from the object
// store first, best-effort: a failed attachment deletion never aborts
// the rest, and the record is deleted regardless of cleanup outcome.
func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID, removeFiles bool) error {
	ev, err := s.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Warn().Err(err).Str("event_id", id.String()).Msg("failed to load event before delete")
	}

	if removeFiles && ev != nil {
		for _, f := range ev.Files {
			if f.URL == "" {
				continue
			}
			if err := s.store.Delete(ctx, f.PublicID); err != nil {
				log.Warn().Err(err).Str("file", f.PublicID).Msg("failed to remove attachment")
			}
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("event", err)
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EventsDeleted.Inc()
	}

	if ev != nil {
		s.notify(ctx, ev, "event_cancelled", "Evento cancelado")
	}
	return nil
}

// ListEvents returns all events owned by userID. With HasFiles set, only
// events carrying at least one attachment are returned.
func (s *Service) ListEvents(ctx context.Context, userID uuid.UUID, filters *model.EventFilters) ([]*model.HealthEvent, error) {
	events, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if filters == nil || !filters.HasFiles {
		return events, nil
	}

	filtered := make([]*model.HealthEvent, 0, len(events))
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if len(ev.Files) > 0 {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// AttachFile uploads r to the object store and records the attachment
// descriptor on the event.
func (s *Service) AttachFile(ctx context.Context, eventID uuid.UUID, r io.Reader, name string) (*model.EventFile, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, r, name)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	file := &model.EventFile{
		EventID:  eventID,
		Name:     name,
		URL:      obj.URL,
		PublicID: obj.PublicID,
		Size:     obj.Size,
	}
	if err := s.repo.AddFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}
	return file, nil
}

// RemoveFile deletes one attachment from the event. Object store
// cleanup is best-effort; the descriptor row is removed regardless.
func (s *Service) RemoveFile(ctx context.Context, eventID, fileID uuid.UUID) error {
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	for _, f := range ev.Files {
		if f.ID != fileID {
			continue
		}
		if f.PublicID != "" {
			if err := s.store.Delete(ctx, f.PublicID); err != nil {
				log.Warn().Err(err).Str("file", f.PublicID).Msg("failed to remove attachment")
			}
		}
		if err := s.repo.DeleteFile(ctx, fileID); err != nil {
			return fmt.Errorf("failed to delete attachment: %w", err)
		}
		return nil
	}
	return apperrors.NotFound("file", nil)
}

// findConflict returns the first stored event whose interval intersects
// candidate. Nil entries are skipped, as is the event matching selfID
// (an idempotent retry of the same record).
func findConflict(existing []*model.HealthEvent, candidate interval, selfID uuid.UUID) *model.HealthEvent {
	for _, other := range existing {
		if other == nil {
			continue
		}
		if selfID != uuid.Nil && other.ID == selfID {
			continue
		}
		stored, err := parseInterval(other.StartTime, other.EndTime)
		if err != nil {
			log.Warn().Err(err).Str("event_id", other.ID.String()).Msg("skipping stored event with malformed time")
			continue
		}
		if candidate.overlaps(stored) {
			return other
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, ev *model.HealthEvent, notifType, title string) {
	if s.notifier == nil {
		return
	}

	label := ev.Title
	if label == "" {
		label = string(ev.Type)
	}

	n := &model.Notification{
		UserID:  ev.UserID,
		Channel: model.ChannelInApp,
		Type:    notifType,
		Title:   title,
		Message: fmt.Sprintf("%s em %s das %s às %s", label, ev.Date, ev.StartTime, ev.EndTime),
		Status:  model.NotificationStatusPending,
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		log.Warn().Err(err).Str("event_id", ev.ID.String()).Msg("failed to send notification")
	}
}
