// Package streak computes the next state of a habit when it is checked in.
//
// The engine is pure: the caller supplies today's date and persists the
// returned habit when Outcome.Persist reports true.
package streak

import (
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/models"
)

// Kind tags the transition taken by a check-in
type Kind int

const (
	FirstCompletion Kind = iota
	AlreadyDoneToday
	StreakContinued
	StreakBroken
)

func (k Kind) String() string {
	switch k {
	case FirstCompletion:
		return "first-completion"
	case AlreadyDoneToday:
		return "already-done-today"
	case StreakContinued:
		return "streak-continued"
	case StreakBroken:
		return "streak-broken"
	default:
		return "unknown"
	}
}

// ErrDateBeforeLastCompletion is returned when today precedes the stored
// last completion date, e.g. after a clock change.
var ErrDateBeforeLastCompletion = fmt.Errorf("%w: date is before the last completion", apperrors.ErrInvalidInput)

// Outcome describes the result of a check-in
type Outcome struct {
	Kind       Kind
	Streak     int
	MaxStreak  int
	MissedDays int // only set for StreakBroken
}

// Persist reports whether the updated habit must be written back
func (o Outcome) Persist() bool {
	return o.Kind != AlreadyDoneToday
}

// Message returns the status line shown to the user
func (o Outcome) Message() string {
	switch o.Kind {
	case AlreadyDoneToday:
		return "You already completed this today!"
	case StreakBroken:
		return fmt.Sprintf("Oh no! You missed %d day(s). Streak reset.\nGreat job! Current streak: %d (Personal Best: %d)",
			o.MissedDays, o.Streak, o.MaxStreak)
	default:
		return fmt.Sprintf("Great job! Current streak: %d (Personal Best: %d)", o.Streak, o.MaxStreak)
	}
}

// Normalize truncates t to midnight of its calendar date in t's location
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// Dates are compared on the calendar, so DST shifts do not skew the count.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// CheckIn applies a completion on `today` to h.
// The habit is returned unchanged for AlreadyDoneToday and on error.
func CheckIn(h models.Habit, today time.Time) (models.Habit, Outcome, error) {
	day := Normalize(today)
	next := h
	var out Outcome

	if h.LastCompleted == nil {
		next.Streak = 1
		out.Kind = FirstCompletion
	} else {
		delta := DaysBetween(*h.LastCompleted, day)
		switch {
		case delta < 0:
			return h, Outcome{}, fmt.Errorf("%w (today %s, last %s)",
				ErrDateBeforeLastCompletion, day.Format("2006-01-02"), h.LastCompletedString())
		case delta == 0:
			return h, Outcome{Kind: AlreadyDoneToday, Streak: h.Streak, MaxStreak: h.MaxStreak}, nil
		case delta == 1:
			next.Streak = h.Streak + 1
			out.Kind = StreakContinued
		default:
			next.Streak = 1
			out.Kind = StreakBroken
			out.MissedDays = delta - 1
		}
	}

	next.LastCompleted = &day
	if next.Streak > next.MaxStreak {
		next.MaxStreak = next.Streak
	}

	out.Streak = next.Streak
	out.MaxStreak = next.MaxStreak
	return next, out, nil
}
