package lab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/repository"
	"github.com/omnisaude/saude-api/internal/service/notification"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
)

const (
	defaultWindow        = time.Hour
	defaultMaxPerWindow  = 10
	rateLimitKeyTemplate = "lab:%s"
)

// Service accepts lab result submissions and attaches the report to the
// target exam event. Submissions are rate limited per user on a fixed
// window so a misbehaving lab integration cannot flood the feed.
type Service struct {
	events   repository.EventRepository
	notifier notification.Service
	validate *validator.Validate
	window   *cache.Cache
	maxPer   int64
}

func NewService(events repository.EventRepository, notifier notification.Service, maxPerWindow int64) *Service {
	if maxPerWindow <= 0 {
		maxPerWindow = defaultMaxPerWindow
	}
	return &Service{
		events:   events,
		notifier: notifier,
		validate: validator.New(),
		window:   cache.New(defaultWindow, 2*defaultWindow),
		maxPer:   maxPerWindow,
	}
}

// Submit validates the payload, enforces the per-user window, and stores
// the report descriptor as a file on the referenced exam event.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req *model.LabSubmission) (*model.EventFile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequest("invalid lab submission", err)
	}

	if err := s.checkWindow(userID); err != nil {
		return nil, err
	}

	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("event", err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event.Type != model.EventTypeExam {
		return nil, apperrors.BadRequest("lab reports can only be attached to exam events", nil)
	}
	if event.UserID != userID {
		return nil, apperrors.NotFound("event", nil)
	}

	file := &model.EventFile{
		ID:        uuid.New(),
		EventID:   event.ID,
		Name:      fmt.Sprintf("%s - %s", req.LabName, req.ReportName),
		URL:       req.ReportURL,
		CreatedAt: time.Now(),
	}
	if err := s.events.AddFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to attach report: %w", err)
	}

	s.notify(ctx, event, req)
	return file, nil
}

func (s *Service) checkWindow(userID uuid.UUID) error {
	key := fmt.Sprintf(rateLimitKeyTemplate, userID)
	count, err := s.window.IncrementInt64(key, 1)
	if err != nil {
		s.window.Set(key, int64(1), cache.DefaultExpiration)
		return nil
	}
	if count > s.maxPer {
		return apperrors.TooManyRequests("lab submission limit reached, try again later", nil)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, event *model.HealthEvent, req *model.LabSubmission) {
	n := &model.Notification{
		UserID:  event.UserID,
		Channel: model.ChannelInApp,
		Type:    "lab_report_received",
		Title:   "Resultado de exame disponível",
		Message: fmt.Sprintf("%s enviou o laudo %q para o exame de %s", req.LabName, req.ReportName, event.Date),
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("failed to send lab report notification")
	}
}
