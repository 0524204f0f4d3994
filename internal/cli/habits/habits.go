package habits

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/menu"
	"github.com/julianstephens/habitrack/internal/validation"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	CheckIn HabitCheckInCmd `cmd:"" name:"checkin" help:"Check in a habit for today."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit permanently."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.Tracker.Add(c.Name)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Added habit %d: %s\n", h.ID, h.Name)
	return nil
}

type HabitListCmd struct {
	JSON bool `help:"Print habits as JSON." name:"json"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Tracker.List()
	if err != nil {
		return err
	}

	if c.JSON {
		out, err := json.MarshalIndent(habits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal habits: %w", err)
		}
		ctx.Println(string(out))
		return nil
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	ctx.Println(menu.RenderHabits(ctx.Out, habits))
	return nil
}

type HabitCheckInCmd struct {
	ID string `arg:"" help:"ID of the habit to check in."`
}

func (c *HabitCheckInCmd) Run(ctx *cli.Context) error {
	id, err := validation.ParseHabitID(c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	_, out, err := ctx.Tracker.CheckIn(id)
	if err != nil {
		return err
	}

	ctx.Println(out.Message())
	return nil
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"ID of the habit to delete."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	id, err := validation.ParseHabitID(c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.Tracker.Get(id)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirm := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete habit %d %q? This cannot be undone.", h.ID, h.Name)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirm).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirm {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.Delete(id); err != nil {
		return err
	}

	ctx.Printf("✓ Deleted habit %d: %s\n", h.ID, h.Name)
	return nil
}
