package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "thrift"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/thrift/thrift.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string (with password) outside of flags
	EnvDBConnection = "THRIFT_DB_CONNECTION"

	// Snapshot constants
	MaxSnapshots       = 14
	SnapshotDirName    = "snapshots"
	SnapshotFilePrefix = "thrift-"
	SnapshotFileSuffix = ".db"

	// Backup file defaults
	BackupFileExt = ".csv"

	// Session States
	StateEntries SessionState = iota
	StateGoals
	StateStats
	StateAchievements
	StateSettings
	StateWelcome
	StateAddEntry
	StateEditEntry
	StateAddGoal
	StateEditGoal
	StateEditSettings
	StateConfirmDeleteEntry
	StateConfirmDeleteGoal
	StateConfirmEditGoal
)
