package group

import (
	"errors"
	"strings"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
)

// Profile identifies the group a client has joined. At most one
// profile exists per client at a time.
type Profile struct {
	GroupCode   string `json:"groupCode"`
	DisplayName string `json:"displayName"`
}

// MemberRecord is one member's synced snapshot within a group. It is
// owned by that member's client and read-only to everyone else.
type MemberRecord struct {
	DisplayName   string             `json:"displayName"`
	PushupData    ledger.DailyRecord `json:"pushupData"`
	TodayCount    int                `json:"todayCount"`
	CurrentStreak int                `json:"currentStreak"`
	BestStreak    int                `json:"bestStreak"`
	LastUpdated   time.Time          `json:"lastUpdated"`
}

// WeeklyWinner is a settled weekly result, cached on the group so it
// is determined exactly once per week.
type WeeklyWinner struct {
	WeekKey string `json:"weekKey"` // ISO week, "YYYY-Www"
	Name    string `json:"name"`
	Total   int    `json:"total"`
}

var (
	ErrGroupCodeTooShort = errors.New("group code must have at least 3 characters")
	ErrEmptyDisplayName  = errors.New("display name empty")
	ErrNotJoined         = errors.New("not joined to a group")
	// ErrRemoteUnavailable signals a join-time remote failure the user
	// may simply retry.
	ErrRemoteUnavailable = errors.New("group service unavailable, try again")
)

const minGroupCodeLen = 3

// Normalize lower-cases and trims a group code or display name, so
// that joins are case- and whitespace-insensitive.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func validateJoin(code, name string) error {
	if len(code) < minGroupCodeLen {
		return ErrGroupCodeTooShort
	}
	if name == "" {
		return ErrEmptyDisplayName
	}
	return nil
}
