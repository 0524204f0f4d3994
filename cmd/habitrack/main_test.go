package main

import (
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitrack/internal/constants"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var app CLI
	parser, err := kong.New(&app, kong.Name(constants.AppName), vars())
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}
	return &app, kctx
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "menu"},
		{[]string{"tui"}, "tui"},
		{[]string{"habit", "add", "Read"}, "habit add"},
		{[]string{"habit", "checkin", "3"}, "habit checkin"},
		{[]string{"habit", "delete", "3", "--yes"}, "habit delete"},
		{[]string{"backup"}, "backup create"},
		{[]string{"keyring", "status"}, "keyring status"},
		{[]string{"debug", "db-path"}, "debug db-path"},
		{[]string{"init", "--force"}, "init"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, kctx := parse(t, tt.args...)
			if got := kctx.Command(); !strings.HasPrefix(got, tt.want) {
				t.Errorf("Command() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	// t.Setenv restores the variable after the test
	t.Setenv(constants.EnvConfig, "")
	os.Unsetenv(constants.EnvConfig)

	app, _ := parse(t)
	if app.Config != constants.DefaultConfigPath {
		t.Errorf("Config = %q, want %q", app.Config, constants.DefaultConfigPath)
	}
	if app.Debug {
		t.Error("debug logging should be off by default")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(constants.EnvConfig, "/tmp/habits.db")

	app, _ := parse(t, "--debug")
	if app.Config != "/tmp/habits.db" {
		t.Errorf("Config = %q, want value from %s", app.Config, constants.EnvConfig)
	}
	if !app.Debug {
		t.Error("expected --debug to be set")
	}
}
