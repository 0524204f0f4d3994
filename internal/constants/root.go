package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitrack"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitrack/habits.db"
	Version            = "v0.1.0"

	// EnvConfig overrides the --config flag when set
	EnvConfig = "HABITRACK_DB"
	// EnvConnection holds a PostgreSQL connection string with credentials
	EnvConnection = "HABITRACK_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// NeverCompleted is shown in place of a last completion date
	NeverCompleted = "Never"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitrack-"
	BackupFileSuffix = ".db"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "habitrack.log"
)

// Session States
const (
	StateHabits SessionState = iota
	StateAddHabit
	StateConfirmDelete
)
