package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnisaude/saude-api/internal/email"
	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/repository"
	"github.com/omnisaude/saude-api/pkg/messaging"
	"github.com/omnisaude/saude-api/pkg/metrics"
)

const feedChannel = "notifications"

// Service stores feed entries and fans them out per channel: in-app
// entries are published on the broker, email entries go through SMTP.
type Service interface {
	Send(ctx context.Context, notification *model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     repository.NotificationRepository
	emailSvc email.Service
	broker   messaging.Broker
	metrics  *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, emailSvc email.Service, broker messaging.Broker, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		emailSvc: emailSvc,
		broker:   broker,
		metrics:  m,
	}
}

func (s *service) Send(ctx context.Context, notification *model.Notification) error {
	if err := s.validateNotification(notification); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	notification.ID = uuid.New()
	notification.Status = model.NotificationStatusPending

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	var err error
	switch notification.Channel {
	case model.ChannelEmail:
		err = s.sendEmail(ctx, notification)
	case model.ChannelInApp:
		err = s.sendInApp(ctx, notification)
	default:
		err = fmt.Errorf("unsupported channel: %s", notification.Channel)
	}

	if err != nil {
		notification.Status = model.NotificationStatusFailed
		if s.metrics != nil {
			s.metrics.NotificationsFailed.WithLabelValues(notification.Channel).Inc()
		}
		if updateErr := s.repo.Update(ctx, notification); updateErr != nil {
			log.Error().Err(updateErr).Str("notification_id", notification.ID.String()).Msg("failed to record notification failure")
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}

	now := time.Now()
	notification.Status = model.NotificationStatusSent
	notification.SentAt = &now
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(notification.Channel).Inc()
	}

	if err := s.repo.Update(ctx, notification); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *service) sendEmail(ctx context.Context, notification *model.Notification) error {
	if s.emailSvc == nil {
		return fmt.Errorf("email service not configured")
	}
	return s.emailSvc.SendCustom(ctx, notification.Recipient, notification.Title, notification.Message)
}

func (s *service) sendInApp(ctx context.Context, notification *model.Notification) error {
	if s.broker == nil {
		// feed entry is stored either way; only live fan-out is skipped
		return nil
	}

	event := &model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Type:           notification.Type,
		Message:        notification.Message,
		CreatedAt:      time.Now(),
	}
	return s.broker.Publish(ctx, feedChannel, event)
}

func (s *service) validateNotification(notification *model.Notification) error {
	if notification.UserID == uuid.Nil {
		return fmt.Errorf("user ID is required")
	}
	if notification.Channel == "" {
		return fmt.Errorf("channel is required")
	}
	if notification.Channel == model.ChannelEmail && notification.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	if notification.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}
