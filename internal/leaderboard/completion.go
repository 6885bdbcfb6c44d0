package leaderboard

import (
	"sync"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/ledger"
)

// CompletionTracker detects friends crossing the daily goal. Each
// member fires at most once per day, and members who are already done
// when a day is first observed are absorbed silently so a restart or a
// fresh join does not replay old celebrations.
type CompletionTracker struct {
	mu       sync.Mutex
	day      string
	notified map[string]struct{}
}

func NewCompletionTracker() *CompletionTracker {
	return &CompletionTracker{}
}

// Observe inspects a roster snapshot and returns the names that newly
// completed their daily goal, excluding selfName.
func (t *CompletionTracker) Observe(members []group.MemberRecord, selfName string, today time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := ledger.DateKey(today)
	firstObservation := t.day != day
	if firstObservation {
		t.day = day
		t.notified = make(map[string]struct{})
	}

	var completed []string
	for _, member := range members {
		if member.PushupData.Count(day) < ledger.DailyGoal {
			continue
		}
		if _, seen := t.notified[member.DisplayName]; seen {
			continue
		}
		t.notified[member.DisplayName] = struct{}{}

		if firstObservation || member.DisplayName == selfName {
			continue
		}
		completed = append(completed, member.DisplayName)
	}

	return completed
}
