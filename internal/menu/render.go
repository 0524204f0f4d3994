package menu

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitrack/internal/models"
)

var tableHeaders = []string{"ID", "Habit Name", "Streak", "Record", "Last Done"}

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

// newStyles binds styles to w so that colors are dropped when w is not a terminal
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		danger:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// RenderHabits renders habits as a table styled for w.
func RenderHabits(w io.Writer, habits []models.Habit) string {
	return newStyles(w).habitTable(habits)
}

// habitTable renders habits as a bordered table, one row per habit.
func (s styles) habitTable(habits []models.Habit) string {
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			strconv.FormatInt(h.ID, 10),
			h.Name,
			strconv.Itoa(h.Streak),
			strconv.Itoa(h.MaxStreak),
			h.LastCompletedString(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})

	return t.Render()
}
