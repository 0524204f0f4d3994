package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/menu"
	"github.com/julianstephens/habitrack/internal/tui"
)

// MenuCmd runs the numbered menu loop on standard input and output
type MenuCmd struct{}

func (c *MenuCmd) Run(ctx *cli.Context) error {
	if err := ctx.Prepare(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	m := menu.New(ctx.Tracker, ctx.In, ctx.Out, menu.WithBeforeDelete(ctx.PerformAutomaticBackup))
	return m.Run()
}

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Prepare(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Tracker, tui.WithBeforeDelete(ctx.PerformAutomaticBackup)), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
