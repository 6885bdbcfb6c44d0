package stats

import "github.com/beeegaf/pushup-tracker/internal/ledger"

type MedalKind string

const (
	MedalKindTotal  MedalKind = "total"
	MedalKindStreak MedalKind = "streak"
)

type Medal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        MedalKind `json:"kind"`
	Threshold   int       `json:"threshold"`
}

type MedalStatus struct {
	Medal
	Earned bool `json:"earned"`
}

// Medals is the static medal catalog. Total medals look at the
// lifetime sum, streak medals at the best streak.
var Medals = []Medal{
	{ID: "bronze", Name: "Bronze", Description: "500 total pushups", Kind: MedalKindTotal, Threshold: 500},
	{ID: "silver", Name: "Silver", Description: "1,000 total pushups", Kind: MedalKindTotal, Threshold: 1000},
	{ID: "gold", Name: "Gold", Description: "5,000 total pushups", Kind: MedalKindTotal, Threshold: 5000},
	{ID: "diamond", Name: "Diamond", Description: "25,000 total pushups", Kind: MedalKindTotal, Threshold: 25000},
	{ID: "streak-3", Name: "On a Roll", Description: "3 day streak", Kind: MedalKindStreak, Threshold: 3},
	{ID: "streak-7", Name: "Week Warrior", Description: "7 day streak", Kind: MedalKindStreak, Threshold: 7},
	{ID: "streak-30", Name: "Iron Month", Description: "30 day streak", Kind: MedalKindStreak, Threshold: 30},
	{ID: "streak-100", Name: "Century Club", Description: "100 day streak", Kind: MedalKindStreak, Threshold: 100},
}

// Evaluate annotates the medal catalog with earned status for the
// given ledger snapshot. It is pure: detecting newly earned medals is
// done by the caller diffing earned id sets between evaluations.
func Evaluate(record ledger.DailyRecord, bestStreak int) []MedalStatus {
	total := Total(record)

	statuses := make([]MedalStatus, 0, len(Medals))
	for _, medal := range Medals {
		earned := false
		switch medal.Kind {
		case MedalKindTotal:
			earned = total >= medal.Threshold
		case MedalKindStreak:
			earned = bestStreak >= medal.Threshold
		}
		statuses = append(statuses, MedalStatus{
			Medal:  medal,
			Earned: earned,
		})
	}
	return statuses
}

// EarnedIDs collects the ids of earned medals, for diffing successive
// evaluations.
func EarnedIDs(statuses []MedalStatus) map[string]bool {
	earned := make(map[string]bool)
	for _, status := range statuses {
		if status.Earned {
			earned[status.ID] = true
		}
	}
	return earned
}
