package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitrack/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Habit Tracker"))
	b.WriteString("\n\n")

	switch m.state {
	case constants.StateAddHabit:
		b.WriteString(m.form.View())
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("esc to cancel"))
	case constants.StateConfirmDelete:
		b.WriteString(dangerStyle.Render(fmt.Sprintf("Delete habit ID %d? This cannot be undone. (y/n)", m.deleteID)))
	default:
		if len(m.list.Items()) == 0 {
			b.WriteString("  No habits yet.\n  Press 'a' to add one.")
		} else {
			b.WriteString(m.list.View())
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		style := statusStyle
		if strings.HasPrefix(m.status, "Error") {
			style = dangerStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}
