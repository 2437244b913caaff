package reminder

import (
	"errors"
	"time"
)

// Error kinds shared by every layer that touches reminders.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("reminder not found")
	ErrPersistence = errors.New("persistence error")
)

// Reminder is a short user-authored task with a done flag.
type Reminder struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	Note      string    `json:"note,omitempty"`
}

// Age returns how long ago the reminder was created, relative to now.
func (r Reminder) Age(now time.Time) time.Duration {
	if r.CreatedAt.IsZero() || now.Before(r.CreatedAt) {
		return 0
	}
	return now.Sub(r.CreatedAt)
}
