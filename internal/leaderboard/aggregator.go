package leaderboard

import (
	"sort"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/stats"
)

// SortMode selects the leaderboard ordering.
type SortMode string

const (
	SortByToday  SortMode = "today"
	SortByStreak SortMode = "streak"
)

// ParseSortMode maps a query value to a SortMode, defaulting to
// today's count for anything unrecognized.
func ParseSortMode(value string) SortMode {
	if SortMode(value) == SortByStreak {
		return SortByStreak
	}
	return SortByToday
}

// Entry is one ranked leaderboard row, fully derived from a member's
// synced record so stale per-member aggregates never leak through.
type Entry struct {
	Rank          int       `json:"rank"`
	Name          string    `json:"name"`
	TodayCount    int       `json:"todayCount"`
	GoalMet       bool      `json:"goalMet"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	Medals        []string  `json:"medals"`
	LastSevenDays []int     `json:"lastSevenDays"`
	IsSelf        bool      `json:"isSelf"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Rank builds ordered leaderboard entries from a roster snapshot.
// Today's count and streaks are recomputed from each member's pushup
// data against the caller's local date, not taken from the synced
// aggregates. Ties keep the roster's order.
func Rank(members []group.MemberRecord, selfName string, mode SortMode, today time.Time) []Entry {
	entries := make([]Entry, 0, len(members))
	for _, member := range members {
		entries = append(entries, buildEntry(member, selfName, today))
	}

	switch mode {
	case SortByStreak:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CurrentStreak > entries[j].CurrentStreak
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TodayCount > entries[j].TodayCount
		})
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func buildEntry(member group.MemberRecord, selfName string, today time.Time) Entry {
	record := member.PushupData
	streaks := stats.Calculate(record, today)
	todayCount := record.Count(ledger.DateKey(today))

	lastSeven := make([]int, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := ledger.DateKey(today.AddDate(0, 0, -offset))
		lastSeven = append(lastSeven, record.Count(day))
	}

	var earned []string
	for _, status := range stats.Evaluate(record, streaks.BestStreak) {
		if status.Earned {
			earned = append(earned, status.ID)
		}
	}

	return Entry{
		Name:          member.DisplayName,
		TodayCount:    todayCount,
		GoalMet:       todayCount >= ledger.DailyGoal,
		CurrentStreak: streaks.CurrentStreak,
		BestStreak:    streaks.BestStreak,
		Medals:        earned,
		LastSevenDays: lastSeven,
		IsSelf:        member.DisplayName == selfName,
		LastUpdated:   member.LastUpdated,
	}
}
