package models

import (
	"time"

	"github.com/julianstephens/habitrack/internal/constants"
)

// Habit represents a daily practice and its streak counters
type Habit struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	LastCompleted *time.Time `json:"last_completed,omitempty"` // calendar date, nil if never completed
	Streak        int        `json:"streak"`
	MaxStreak     int        `json:"max_streak"`
}

// NeverCompleted reports whether the habit has no recorded check-in
func (h Habit) NeverCompleted() bool {
	return h.LastCompleted == nil
}

// LastCompletedString returns the last completion date as YYYY-MM-DD, or "Never"
func (h Habit) LastCompletedString() string {
	if h.NeverCompleted() {
		return constants.NeverCompleted
	}
	return h.LastCompleted.Format(constants.DateFormat)
}
