package stats

import (
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
)

type DayStatus string

const (
	DayStatusDone    DayStatus = "done"
	DayStatusPartial DayStatus = "partial"
	DayStatusMissed  DayStatus = "missed"
	DayStatusFuture  DayStatus = "future"
)

type HistoryDay struct {
	Day     string    `json:"day"`
	Count   int       `json:"count"`
	Status  DayStatus `json:"status"`
	IsToday bool      `json:"isToday"`
}

// History returns the last four weeks as a calendar grid: the current
// week plus the three before it, so rows always hold full
// Monday-to-Sunday weeks.
func History(record ledger.DailyRecord, today time.Time) []HistoryDay {
	end := today
	for end.Weekday() != time.Sunday {
		end = end.AddDate(0, 0, 1)
	}
	start := end.AddDate(0, 0, -27)

	todayKey := ledger.DateKey(today)

	var days []HistoryDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := ledger.DateKey(d)
		count := record.Count(key)

		status := DayStatusMissed
		switch {
		case key > todayKey:
			status = DayStatusFuture
		case count >= ledger.DailyGoal:
			status = DayStatusDone
		case count > 0:
			status = DayStatusPartial
		}

		days = append(days, HistoryDay{
			Day:     key,
			Count:   count,
			Status:  status,
			IsToday: key == todayKey,
		})
	}

	return days
}
