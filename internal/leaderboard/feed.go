package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/notify"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

type membership interface {
	Current() (*group.Profile, error)
}

// Feed is the read side of group sync. It caches the latest roster
// snapshot so leaderboard reads and re-sorts never hit the remote
// store, and it turns snapshot diffs into friend-completion
// notifications.
type Feed struct {
	membership membership
	winners    winnerStore
	tracker    *CompletionTracker
	dispatcher *notify.Dispatcher
	metrics    *metrics.Manager
	now        func() time.Time

	mu      sync.RWMutex
	members []group.MemberRecord
}

func NewFeed(
	membership membership,
	winners winnerStore,
	dispatcher *notify.Dispatcher,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{
		membership: membership,
		winners:    winners,
		tracker:    NewCompletionTracker(),
		dispatcher: dispatcher,
		metrics:    metricsManager,
		now:        now,
	}
}

// OnSnapshot is registered as the group service's snapshot listener.
func (f *Feed) OnSnapshot(members []group.MemberRecord) {
	f.mu.Lock()
	f.members = members
	f.mu.Unlock()

	selfName := ""
	if profile, err := f.membership.Current(); err == nil {
		selfName = profile.DisplayName
	}

	for _, name := range f.tracker.Observe(members, selfName, f.now()) {
		f.metrics.CounterFriendCompletions.Inc()
		log.Debugf("friend [%s] completed the daily goal", name)
		f.dispatcher.Dispatch(context.Background(), notify.Notification{
			Title: "Goal complete 💪",
			Body:  fmt.Sprintf("%s just finished their daily pushups!", name),
		})
	}
}

// Leaderboard ranks the cached snapshot. Changing the sort mode is a
// pure re-sort, no remote fetch.
func (f *Feed) Leaderboard(mode SortMode) ([]Entry, error) {
	profile, err := f.membership.Current()
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	members := f.members
	f.mu.RUnlock()

	return Rank(members, profile.DisplayName, mode, f.now()), nil
}

// LastWeekWinner settles and returns last week's winner for the
// current group. Nil with nil error means last week had no activity.
func (f *Feed) LastWeekWinner(ctx context.Context) (*group.WeeklyWinner, error) {
	profile, err := f.membership.Current()
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	members := f.members
	f.mu.RUnlock()

	return SettleLastWeek(ctx, f.winners, profile.GroupCode, members, f.now())
}
