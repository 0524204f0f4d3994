package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/validation"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump habit data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" optional:"" help:"Habit ID to dump. Dumps every habit when omitted."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if cmd.ID == "" {
		habits, err := ctx.Store.GetAllHabits()
		if err != nil {
			return fmt.Errorf("failed to get habits: %w", err)
		}
		return printJSON(ctx, habits)
	}

	id, err := validation.ParseHabitID(cmd.ID)
	if err != nil {
		return err
	}
	habit, err := ctx.Store.GetHabit(id)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return printJSON(ctx, habit)
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
