package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnisaude/saude-api/internal/model"
)

type fakeEventRepo struct {
	byDate map[string][]*model.HealthEvent
}

func (f *fakeEventRepo) Create(_ context.Context, _ *model.HealthEvent) error { return nil }

func (f *fakeEventRepo) Get(_ context.Context, _ uuid.UUID) (*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) Update(_ context.Context, _ uuid.UUID, _ *model.UpdateEventRequest) (*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeEventRepo) FindByDateAndProfessional(_ context.Context, _ string, _ uuid.UUID, _ *uuid.UUID) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*model.HealthEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindByDate(_ context.Context, date string) ([]*model.HealthEvent, error) {
	return f.byDate[date], nil
}

func (f *fakeEventRepo) AddFile(_ context.Context, _ *model.EventFile) error { return nil }

func (f *fakeEventRepo) GetFiles(_ context.Context, _ uuid.UUID) ([]*model.EventFile, error) {
	return nil, nil
}

func (f *fakeEventRepo) DeleteFile(_ context.Context, _ uuid.UUID) error { return nil }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeNotifier) ListForUser(_ context.Context, _ uuid.UUID, _ bool) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

func eventAt(date, start string) *model.HealthEvent {
	ev := &model.HealthEvent{
		UserID:         uuid.New(),
		ProfessionalID: uuid.New(),
		Date:           date,
		StartTime:      start,
		EndTime:        "23:59",
		Type:           model.EventTypeConsultation,
	}
	ev.ID = uuid.New()
	return ev
}

func TestScanNotifiesEventsInLeadWindow(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	today := now.Format(dateLayout)

	repo := &fakeEventRepo{byDate: map[string][]*model.HealthEvent{
		today: {
			eventAt(today, "09:30"), // inside the window
			eventAt(today, "11:00"), // too far out
			eventAt(today, "08:00"), // already started
		},
	}}
	notifier := &fakeNotifier{}

	r := NewReminder(repo, notifier, 60)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Scan(context.Background()))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "event_reminder", notifier.sent[0].Type)
	assert.Contains(t, notifier.sent[0].Message, "09:30")
}

func TestScanDoesNotResend(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	today := now.Format(dateLayout)

	repo := &fakeEventRepo{byDate: map[string][]*model.HealthEvent{
		today: {eventAt(today, "09:45")},
	}}
	notifier := &fakeNotifier{}

	r := NewReminder(repo, notifier, 60)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Scan(context.Background()))
	require.NoError(t, r.Scan(context.Background()))
	assert.Len(t, notifier.sent, 1)
}

func TestScanConcurrent(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	today := now.Format(dateLayout)

	due := make([]*model.HealthEvent, 50)
	for i := range due {
		due[i] = eventAt(today, "09:30")
	}
	repo := &fakeEventRepo{byDate: map[string][]*model.HealthEvent{today: due}}
	notifier := &fakeNotifier{}

	r := NewReminder(repo, notifier, 60)
	r.now = func() time.Time { return now }

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Scan(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, len(due), notifier.count())
}

func TestScanSkipsUnparseableStart(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	today := now.Format(dateLayout)

	broken := eventAt(today, "9h30")
	repo := &fakeEventRepo{byDate: map[string][]*model.HealthEvent{
		today: {broken},
	}}
	notifier := &fakeNotifier{}

	r := NewReminder(repo, notifier, 60)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Scan(context.Background()))
	assert.Empty(t, notifier.sent)
}
