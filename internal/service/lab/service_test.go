package lab

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnisaude/saude-api/internal/model"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*model.HealthEvent
	files  []*model.EventFile
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*model.HealthEvent)}
}

func (f *fakeEventRepo) Create(_ context.Context, ev *model.HealthEvent) error {
	f.events[ev.ID] = ev
	return nil
}

func (f *fakeEventRepo) Get(_ context.Context, id uuid.UUID) (*model.HealthEvent, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("failed to get event: %w", sql.ErrNoRows)
	}
	return ev, nil
}

func (f *fakeEventRepo) Update(_ context.Context, id uuid.UUID, _ *model.UpdateEventRequest) (*model.HealthEvent, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) FindByDateAndProfessional(_ context.Context, _ string, _ uuid.UUID, _ *uuid.UUID) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindByDate(_ context.Context, _ string) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) AddFile(_ context.Context, file *model.EventFile) error {
	f.files = append(f.files, file)
	return nil
}

func (f *fakeEventRepo) GetFiles(_ context.Context, _ uuid.UUID) ([]*model.EventFile, error) {
	return f.files, nil
}

func (f *fakeEventRepo) DeleteFile(_ context.Context, _ uuid.UUID) error {
	return nil
}

type fakeNotifier struct {
	sent []*model.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n *model.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) ListForUser(_ context.Context, _ uuid.UUID, _ bool) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func examEvent(userID uuid.UUID) *model.HealthEvent {
	ev := &model.HealthEvent{
		UserID:         userID,
		ProfessionalID: uuid.New(),
		Date:           "2025-11-03",
		StartTime:      "08:00",
		EndTime:        "09:00",
		Type:           model.EventTypeExam,
	}
	ev.ID = uuid.New()
	return ev
}

func validSubmission(eventID uuid.UUID) *model.LabSubmission {
	return &model.LabSubmission{
		EventID:    eventID,
		LabName:    "Laboratório Central",
		ReportName: "Hemograma completo",
		ReportURL:  "https://reports.example.com/abc123.pdf",
	}
}

func TestSubmitAttachesReport(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, 10)

	userID := uuid.New()
	ev := examEvent(userID)
	repo.events[ev.ID] = ev

	file, err := svc.Submit(context.Background(), userID, validSubmission(ev.ID))
	require.NoError(t, err)

	assert.Equal(t, ev.ID, file.EventID)
	assert.Equal(t, "Laboratório Central - Hemograma completo", file.Name)
	assert.Equal(t, "https://reports.example.com/abc123.pdf", file.URL)
	require.Len(t, repo.files, 1)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "lab_report_received", notifier.sent[0].Type)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	svc := NewService(newFakeEventRepo(), &fakeNotifier{}, 10)

	req := validSubmission(uuid.New())
	req.ReportURL = "not-a-url"

	_, err := svc.Submit(context.Background(), uuid.New(), req)
	assert.Equal(t, apperrors.ErrBadRequest, appCode(t, err))
}

func TestSubmitRejectsConsultationEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo, &fakeNotifier{}, 10)

	userID := uuid.New()
	ev := examEvent(userID)
	ev.Type = model.EventTypeConsultation
	repo.events[ev.ID] = ev

	_, err := svc.Submit(context.Background(), userID, validSubmission(ev.ID))
	assert.Equal(t, apperrors.ErrBadRequest, appCode(t, err))
	assert.Empty(t, repo.files)
}

func TestSubmitUnknownEvent(t *testing.T) {
	svc := NewService(newFakeEventRepo(), &fakeNotifier{}, 10)

	_, err := svc.Submit(context.Background(), uuid.New(), validSubmission(uuid.New()))
	assert.Equal(t, apperrors.ErrNotFound, appCode(t, err))
}

func TestSubmitHidesOtherUsersEvents(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo, &fakeNotifier{}, 10)

	ev := examEvent(uuid.New())
	repo.events[ev.ID] = ev

	_, err := svc.Submit(context.Background(), uuid.New(), validSubmission(ev.ID))
	assert.Equal(t, apperrors.ErrNotFound, appCode(t, err))
}

func TestSubmitRateLimitsPerUser(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewService(repo, &fakeNotifier{}, 2)

	userID := uuid.New()
	ev := examEvent(userID)
	repo.events[ev.ID] = ev

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), userID, validSubmission(ev.ID))
		require.NoError(t, err)
	}

	_, err := svc.Submit(context.Background(), userID, validSubmission(ev.ID))
	assert.Equal(t, apperrors.ErrTooManyRequests, appCode(t, err))

	// A different user still has a fresh window.
	otherID := uuid.New()
	otherEv := examEvent(otherID)
	repo.events[otherEv.ID] = otherEv

	_, err = svc.Submit(context.Background(), otherID, validSubmission(otherEv.ID))
	assert.NoError(t, err)
}
