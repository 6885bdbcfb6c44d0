package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/notify"

	log "github.com/sirupsen/logrus"
)

type todayCounter interface {
	TodayCount(ctx context.Context) (int, error)
}

// Scheduler fires due reminders. Every tick it matches enabled
// reminders against the current HH:MM and fires each at most once per
// minute.
type Scheduler struct {
	service    *Service
	counter    todayCounter
	dispatcher *notify.Dispatcher
	now        func() time.Time
	interval   time.Duration

	firedMinute string
	fired       map[int]struct{}
}

func NewScheduler(
	service *Service,
	counter todayCounter,
	dispatcher *notify.Dispatcher,
	now func() time.Time,
	interval time.Duration,
) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		service:    service,
		counter:    counter,
		dispatcher: dispatcher,
		now:        now,
		interval:   interval,
		fired:      make(map[int]struct{}),
	}
}

// Run blocks until ctx is canceled, checking reminders on every tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// also check right away
	s.checkDue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Debugln("reminders scheduler stopped")
			return
		case <-ticker.C:
			s.checkDue(ctx)
		}
	}
}

func (s *Scheduler) checkDue(ctx context.Context) {
	now := s.now()
	currentMinute := now.Format(timeLayout)

	// dedupe per calendar minute, not per time-of-day, so a reminder
	// fires again the next day
	minuteKey := now.Format(ledger.DateLayout + " " + timeLayout)
	if minuteKey != s.firedMinute {
		s.firedMinute = minuteKey
		s.fired = make(map[int]struct{})
	}

	reminders, err := s.service.List(ctx)
	if err != nil {
		log.Errorf("reminders check: list: %s", err)
		return
	}

	for _, reminder := range reminders {
		if !reminder.Enabled || reminder.Time != currentMinute {
			continue
		}
		if _, alreadyFired := s.fired[reminder.ID]; alreadyFired {
			continue
		}
		s.fired[reminder.ID] = struct{}{}

		remaining := 0
		if count, err := s.counter.TodayCount(ctx); err != nil {
			log.Errorf("reminders check: today count: %s", err)
		} else if count < ledger.DailyGoal {
			remaining = ledger.DailyGoal - count
		}

		s.dispatcher.Dispatch(ctx, notify.Notification{
			Title: "Pushup Tracker",
			Body:  fmt.Sprintf("%s (%d remaining today)", reminder.Label, remaining),
		})
	}
}
