package leaderboard

import (
	"sort"
	"testing"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/ledger"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-02-10 is a Saturday
var testToday = time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortByToday, ParseSortMode("today"))
	assert.Equal(t, SortByStreak, ParseSortMode("streak"))
	assert.Equal(t, SortByToday, ParseSortMode(""))
	assert.Equal(t, SortByToday, ParseSortMode("bogus"))
}

func TestRank_ByToday(t *testing.T) {
	members := []group.MemberRecord{
		{DisplayName: "mika", PushupData: ledger.DailyRecord{"2024-02-10": 40}},
		{DisplayName: "pera", PushupData: ledger.DailyRecord{"2024-02-10": 120}},
		{DisplayName: "zare", PushupData: ledger.DailyRecord{"2024-02-10": 75}},
	}

	entries := Rank(members, "mika", SortByToday, testToday)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"pera", "zare", "mika"}, names(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
	assert.True(t, entries[0].GoalMet)
	assert.False(t, entries[1].GoalMet)
	assert.True(t, entries[2].IsSelf)
	assert.False(t, entries[0].IsSelf)
}

func TestRank_ByStreak(t *testing.T) {
	members := []group.MemberRecord{
		{DisplayName: "mika", PushupData: ledger.DailyRecord{
			"2024-02-10": 10,
			"2024-02-09": 100,
			"2024-02-08": 100,
			"2024-02-07": 110,
		}},
		{DisplayName: "pera", PushupData: ledger.DailyRecord{
			"2024-02-10": 150,
			"2024-02-09": 100,
		}},
	}

	entries := Rank(members, "mika", SortByStreak, testToday)
	require.Len(t, entries, 2)
	assert.Equal(t, "mika", entries[0].Name)
	assert.Equal(t, 3, entries[0].CurrentStreak)
	assert.Equal(t, "pera", entries[1].Name)
	assert.Equal(t, 2, entries[1].CurrentStreak)

	// same roster, different mode: pure re-sort
	byToday := Rank(members, "mika", SortByToday, testToday)
	assert.Equal(t, "pera", byToday[0].Name)
}

func TestRank_TiesKeepRosterOrder(t *testing.T) {
	members := []group.MemberRecord{
		{DisplayName: "first", PushupData: ledger.DailyRecord{"2024-02-10": 80}},
		{DisplayName: "second", PushupData: ledger.DailyRecord{"2024-02-10": 80}},
		{DisplayName: "third", PushupData: ledger.DailyRecord{"2024-02-10": 90}},
	}

	entries := Rank(members, "", SortByToday, testToday)
	assert.Equal(t, []string{"third", "first", "second"}, names(entries))
}

func TestRank_EntryDerivedFromPushupData(t *testing.T) {
	member := group.MemberRecord{
		DisplayName: "mika",
		PushupData: ledger.DailyRecord{
			"2024-02-04": 100,
			"2024-02-06": 30,
			"2024-02-09": 110,
			"2024-02-10": 120,
		},
		// stale synced aggregate, must be ignored
		TodayCount: 7,
	}

	entries := Rank([]group.MemberRecord{member}, "mika", SortByToday, testToday)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, 120, entry.TodayCount)
	assert.Equal(t, 2, entry.CurrentStreak)
	// 2024-02-04 .. 2024-02-10
	assert.Equal(t, []int{100, 0, 30, 0, 0, 110, 120}, entry.LastSevenDays)
}

func TestRank_Medals(t *testing.T) {
	record := ledger.DailyRecord{}
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		record[ledger.DateKey(day.AddDate(0, 0, i))] = 100
	}

	entries := Rank([]group.MemberRecord{
		{DisplayName: "mika", PushupData: record},
	}, "mika", SortByToday, testToday)

	require.Len(t, entries, 1)
	// 1000 total, best streak 10
	assert.Equal(t, []string{"bronze", "silver", "streak-3", "streak-7"}, entries[0].Medals)
}

func TestRank_ManyMembersOrdered(t *testing.T) {
	members := make([]group.MemberRecord, 0, 50)
	for i := 0; i < 50; i++ {
		members = append(members, group.MemberRecord{
			DisplayName: gofakeit.Username(),
			PushupData: ledger.DailyRecord{
				"2024-02-10": gofakeit.Number(0, 300),
			},
		})
	}

	entries := Rank(members, "", SortByToday, testToday)
	require.Len(t, entries, len(members))
	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].TodayCount > entries[j].TodayCount
	}))
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
