package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
)

type winnerStore interface {
	WeeklyWinnerFor(ctx context.Context, code, weekKey string) (*group.WeeklyWinner, error)
	SetWeeklyWinner(ctx context.Context, code string, winner group.WeeklyWinner) (bool, error)
}

// WeekKey formats t's ISO week as "YYYY-Www", e.g. "2024-W06".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PriorWeek returns the Monday and Sunday of the ISO week before the
// one containing now.
func PriorWeek(now time.Time) (monday, sunday time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO weeks start on Monday
	}
	monday = day.AddDate(0, 0, -(weekday - 1) - 7)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// computeWinner totals each member's pushups over [monday, sunday] and
// picks the highest. Ties go to the member encountered first in the
// snapshot. A week with zero pushups has no winner.
func computeWinner(members []group.MemberRecord, monday, sunday time.Time) *group.WeeklyWinner {
	var winner *group.WeeklyWinner
	for _, member := range members {
		total := 0
		for day := monday; !day.After(sunday); day = day.AddDate(0, 0, 1) {
			total += member.PushupData.Count(ledger.DateKey(day))
		}
		if total > 0 && (winner == nil || total > winner.Total) {
			winner = &group.WeeklyWinner{
				WeekKey: WeekKey(monday),
				Name:    member.DisplayName,
				Total:   total,
			}
		}
	}
	return winner
}

// SettleLastWeek determines last week's winner exactly once per group.
// The first client to settle a week writes the result; everyone else,
// including a settler that loses the write race, reads the cached one.
// A nil result means the week had no activity at all.
func SettleLastWeek(
	ctx context.Context,
	store winnerStore,
	code string,
	members []group.MemberRecord,
	now time.Time,
) (_ *group.WeeklyWinner, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "leaderboard.settlelastweek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	monday, sunday := PriorWeek(now)
	weekKey := WeekKey(monday)

	cached, err := store.WeeklyWinnerFor(ctx, code, weekKey)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, group.ErrWinnerNotSet) {
		return nil, fmt.Errorf("get weekly winner: %w", err)
	}

	winner := computeWinner(members, monday, sunday)
	if winner == nil {
		return nil, nil
	}

	set, err := store.SetWeeklyWinner(ctx, code, *winner)
	if err != nil {
		return nil, fmt.Errorf("set weekly winner: %w", err)
	}
	if !set {
		// someone settled it first, their result stands
		cached, err := store.WeeklyWinnerFor(ctx, code, weekKey)
		if err != nil {
			return nil, fmt.Errorf("get settled weekly winner: %w", err)
		}
		return cached, nil
	}

	return winner, nil
}
