package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/cli/backups"
	"github.com/julianstephens/habitrack/internal/cli/habits"
	"github.com/julianstephens/habitrack/internal/cli/system"
	"github.com/julianstephens/habitrack/internal/constants"
	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/logger"
)

type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`
	Config  string           `help:"SQLite database path, PostgreSQL connection string without a password, or 'keyring' to use the connection string from ${env_connection} or the OS keyring." env:"HABITRACK_DB" default:"${default_config}"`
	Debug   bool             `help:"Also write debug logs to stderr."`

	Menu    system.MenuCmd    `cmd:"" help:"Run the numbered habit menu." default:"1"`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the full-screen TUI."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits one command at a time."`
	Init    system.InitCmd    `cmd:"" help:"Initialize habitrack storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with its password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	DebugCmd system.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	if err := run(); err != nil {
		apperrors.Fatal(err)
	}
}

func vars() kong.Vars {
	return kong.Vars{
		"version":        constants.Version,
		"default_config": constants.DefaultConfigPath,
		"env_connection": constants.EnvConnection,
	}
}

func run() error {
	var app CLI
	kctx := kong.Parse(&app,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits and keep your streaks going."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars(),
	)

	configDir, err := cli.ConfigDir(app.Config)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: app.Debug, ConfigDir: configDir}); err != nil {
		// nothing to close yet
		apperrors.Fatalf("failed to initialize logging in %s: %v", configDir, err)
	}
	logger.Debug("Starting", "command", kctx.Command(), "version", constants.Version)

	// keyring commands manage the connection string and must work before one exists
	if strings.HasPrefix(kctx.Command(), "keyring") {
		return kctx.Run(&cli.Context{In: os.Stdin, Out: os.Stdout})
	}

	store, err := cli.OpenStore(app.Config)
	if err != nil {
		return err
	}
	defer store.Close()

	return kctx.Run(cli.NewContext(store))
}
