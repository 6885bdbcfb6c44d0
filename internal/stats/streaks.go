package stats

import (
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
)

// streak computation looks at most one year back; older data does not
// affect streaks (known limitation, lifetime totals are unbounded).
const streakScanDays = 365

type Streaks struct {
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

// Calculate derives the current and best streak from the record,
// anchored at today. A day completes the streak when its count reaches
// the daily goal. An incomplete today (in progress or missed) never
// breaks the current streak, it is simply not counted: the streak is
// then measured from yesterday backward.
func Calculate(record ledger.DailyRecord, today time.Time) Streaks {
	var best, run int
	for i := 0; i < streakScanDays; i++ {
		count := record.Count(ledger.DateKey(today.AddDate(0, 0, -i)))
		if count >= ledger.DailyGoal {
			run++
		} else {
			if i == 0 {
				// today is in progress or not started, excluded
				run = 0
				continue
			}
			run = 0
		}
		if run > best {
			best = run
		}
	}

	start := 0
	if record.Count(ledger.DateKey(today)) < ledger.DailyGoal {
		start = 1
	}
	current := 0
	for i := start; i < streakScanDays; i++ {
		if record.Count(ledger.DateKey(today.AddDate(0, 0, -i))) >= ledger.DailyGoal {
			current++
		} else {
			break
		}
	}

	return Streaks{
		CurrentStreak: current,
		BestStreak:    best,
	}
}

// Total sums all recorded counts, across all dates ever recorded.
func Total(record ledger.DailyRecord) int {
	var total int
	for _, count := range record {
		total += count
	}
	return total
}
