package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/omnisaude/saude-api/internal/model"
	"github.com/omnisaude/saude-api/internal/repository"
	"github.com/omnisaude/saude-api/internal/service/notification"
)

const dateLayout = "2006-01-02"

// Reminder scans today's events once a minute and pushes a feed entry
// for each event starting within the lead window. Sent reminders are
// tracked in memory; a restart may re-send, which is acceptable for
// this channel. The sent map is mutex-guarded: a scan that outlives
// its tick (slow SMTP, slow DB) may overlap the next one.
type Reminder struct {
	events   repository.EventRepository
	notifier notification.Service
	lead     time.Duration
	cron     *cron.Cron

	mu   sync.Mutex
	sent map[string]struct{}

	now func() time.Time
}

func NewReminder(events repository.EventRepository, notifier notification.Service, leadMinutes int) *Reminder {
	if leadMinutes <= 0 {
		leadMinutes = 60
	}
	return &Reminder{
		events:   events,
		notifier: notifier,
		lead:     time.Duration(leadMinutes) * time.Minute,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		sent:     make(map[string]struct{}),
		now:      time.Now,
	}
}

// Start schedules the scan and blocks until ctx is cancelled.
func (r *Reminder) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc("* * * * *", func() {
		if err := r.Scan(ctx); err != nil {
			log.Error().Err(err).Msg("reminder scan failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder scan: %w", err)
	}

	r.cron.Start()
	<-ctx.Done()

	stopped := r.cron.Stop()
	<-stopped.Done()
	return nil
}

// Scan runs one pass over today's events.
func (r *Reminder) Scan(ctx context.Context) error {
	now := r.now()
	today := now.Format(dateLayout)

	events, err := r.events.FindByDate(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load events for %s: %w", today, err)
	}

	for _, ev := range events {
		if ev == nil {
			continue
		}
		if !r.due(ev, now) {
			continue
		}
		if !r.claim(ev.ID.String()) {
			continue
		}

		n := &model.Notification{
			UserID:  ev.UserID,
			Channel: model.ChannelInApp,
			Type:    "event_reminder",
			Title:   "Lembrete de evento",
			Message: fmt.Sprintf("Seu evento começa às %s", ev.StartTime),
		}
		if err := r.notifier.Send(ctx, n); err != nil {
			log.Warn().Err(err).Str("event_id", ev.ID.String()).Msg("failed to send reminder")
			r.release(ev.ID.String())
		}
	}
	return nil
}

// claim marks id as sent and reports whether this caller won it.
func (r *Reminder) claim(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sent[id]; ok {
		return false
	}
	r.sent[id] = struct{}{}
	return true
}

// release frees a claimed id after a failed send so the next scan can
// retry it.
func (r *Reminder) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sent, id)
}

// due reports whether the event starts within (0, lead] from now.
func (r *Reminder) due(ev *model.HealthEvent, now time.Time) bool {
	start, err := time.ParseInLocation("2006-01-02 15:04", ev.Date+" "+ev.StartTime, now.Location())
	if err != nil {
		log.Warn().Str("event_id", ev.ID.String()).Str("start", ev.StartTime).Msg("unparseable event start")
		return false
	}

	until := start.Sub(now)
	return until > 0 && until <= r.lead
}
