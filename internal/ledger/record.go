package ledger

import "time"

// DateLayout is the calendar-date key format used throughout,
// local time zone of the client.
const DateLayout = "2006-01-02"

// DailyGoal is the fixed number of repetitions that completes a day.
const DailyGoal = 100

// DailyRecord maps a calendar date ("YYYY-MM-DD") to the number of
// repetitions done that day. Absent entries mean zero, counts are
// never negative.
type DailyRecord map[string]int

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func (r DailyRecord) Count(day string) int {
	return r[day]
}

// Merge combines two records taking the larger count for every date
// present in either side. The max rule makes merging commutative,
// associative and idempotent, so concurrent updates from multiple
// replicas never lose repetitions.
func Merge(a, b DailyRecord) DailyRecord {
	merged := make(DailyRecord, len(a)+len(b))
	for day, count := range a {
		merged[day] = count
	}
	for day, count := range b {
		if count > merged[day] {
			merged[day] = count
		}
	}
	return merged
}

// Clone returns a deep copy, so that snapshots handed out to other
// components cannot mutate the original.
func (r DailyRecord) Clone() DailyRecord {
	cloned := make(DailyRecord, len(r))
	for day, count := range r {
		cloned[day] = count
	}
	return cloned
}
