package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
	"github.com/julianstephens/habitrack/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	In      io.Reader
	Out     io.Writer
	// Clock overrides the wall clock for diagnostics
	Clock   func() time.Time
}

// NewContext wires a tracker over store and binds standard input and output.
func NewContext(store storage.Provider, opts ...tracker.Option) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, opts...),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Now returns the current time from Clock, or the wall clock when unset.
func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// BackupManager returns a manager for the SQLite file behind the store.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, backup.ErrUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Prepare creates or upgrades the schema for interactive sessions.
// Migration progress goes to the log instead of the terminal.
func (c *Context) Prepare() error {
	if m, ok := c.Store.(storage.Migrator); ok {
		m.SetMigrationLogger(func(msg string) { logger.Info(msg) })
	}
	return c.Store.Init()
}
