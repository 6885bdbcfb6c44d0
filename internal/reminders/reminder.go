package reminders

import (
	"errors"
	"time"
)

// Reminder is a user defined time-of-day notification rule.
type Reminder struct {
	ID      int    `json:"id"`
	Label   string `json:"label"`
	Time    string `json:"time"` // "HH:MM", 24h
	Enabled bool   `json:"enabled"`
}

const timeLayout = "15:04"

var (
	ErrEmptyLabel       = errors.New("reminder label empty")
	ErrInvalidTime      = errors.New("reminder time must be HH:MM")
	ErrReminderNotFound = errors.New("reminder not found")
)

func validateTime(value string) error {
	if _, err := time.Parse(timeLayout, value); err != nil {
		return ErrInvalidTime
	}
	return nil
}
