package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitrack/internal/constants"
	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/models"
)

// MaxNameLength bounds habit names so they fit in a table row
const MaxNameLength = 100

var (
	ErrEmptyName = fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidInput)
	ErrInvalidID = fmt.Errorf("%w: habit id must be a positive number", apperrors.ErrInvalidInput)
)

// HabitName trims the name and rejects blank or oversized input.
func HabitName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len([]rune(name)) > MaxNameLength {
		return "", fmt.Errorf("%w: name cannot exceed %d characters", apperrors.ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}

// ParseHabitID parses a positive integer habit id.
func ParseHabitID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidID, s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w, got %d", ErrInvalidID, id)
	}
	return id, nil
}

// ConflictType represents the kind of inconsistency found in stored habits
type ConflictType string

const (
	ConflictDuplicateName           ConflictType = "duplicate_name"
	ConflictEmptyName               ConflictType = "empty_name"
	ConflictNegativeStreak          ConflictType = "negative_streak"
	ConflictStreakAboveMax          ConflictType = "streak_above_max"
	ConflictFutureDate              ConflictType = "future_date"
	ConflictStreakWithoutCompletion ConflictType = "streak_without_completion"
)

// Advisory reports whether the conflict describes legal but suspicious data.
// Habit names are not unique, so duplicates are only worth a warning.
func (t ConflictType) Advisory() bool {
	return t == ConflictDuplicateName
}

// Conflict represents a detected inconsistency
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []int64
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Violations returns the conflicts that break a streak invariant
func (vr *ValidationResult) Violations() ValidationResult {
	return vr.filter(false)
}

// Advisories returns the conflicts that are allowed but worth a look
func (vr *ValidationResult) Advisories() ValidationResult {
	return vr.filter(true)
}

func (vr *ValidationResult) filter(advisory bool) ValidationResult {
	out := ValidationResult{Conflicts: []Conflict{}}
	for _, c := range vr.Conflicts {
		if c.Type.Advisory() == advisory {
			out.Conflicts = append(out.Conflicts, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored habits against the streak invariants
type Validator struct {
	now func() time.Time
}

func New() *Validator {
	return &Validator{now: time.Now}
}

// NewWithClock builds a Validator that treats clock() as the current time.
func NewWithClock(clock func() time.Time) *Validator {
	return &Validator{now: clock}
}

func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byName := make(map[string][]int64)
	for _, h := range habits {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Habit %d has an empty name", h.ID),
				HabitIDs:    []int64{h.ID},
			})
			continue
		}
		key := strings.ToLower(name)
		byName[key] = append(byName[key], h.ID)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := byName[name]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				HabitIDs:    ids,
			})
		}
	}

	todayKey := v.now().Format(constants.DateFormat)
	for _, h := range habits {
		if h.Streak < 0 || h.MaxStreak < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeStreak,
				Description: fmt.Sprintf("Habit %d %q has a negative streak (%d, record %d)", h.ID, h.Name, h.Streak, h.MaxStreak),
				HabitIDs:    []int64{h.ID},
			})
		}
		if h.Streak > h.MaxStreak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStreakAboveMax,
				Description: fmt.Sprintf("Habit %d %q has streak %d above its record %d", h.ID, h.Name, h.Streak, h.MaxStreak),
				HabitIDs:    []int64{h.ID},
			})
		}
		if h.NeverCompleted() {
			if h.Streak != 0 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictStreakWithoutCompletion,
					Description: fmt.Sprintf("Habit %d %q has streak %d but was never completed", h.ID, h.Name, h.Streak),
					HabitIDs:    []int64{h.ID},
				})
			}
			continue
		}
		// YYYY-MM-DD compares correctly as a string
		if h.LastCompletedString() > todayKey {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureDate,
				Description: fmt.Sprintf("Habit %d %q was last completed in the future (%s)", h.ID, h.Name, h.LastCompletedString()),
				HabitIDs:    []int64{h.ID},
			})
		}
	}

	return result
}
