package constants

const (
	// DateFormat is the calendar day key used for streaks and period windows (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is the local date-time layout shown in forms
	DateTimeFormat = "2006-01-02T15:04:05"

	// BackupTimeFormat is DateTimeFormat with the fractional seconds a stored
	// timestamp carries; whole seconds print without a fraction
	BackupTimeFormat = "2006-01-02T15:04:05.999999999"

	// TimeFormat is the clock layout shown next to entries (HH:MM)
	TimeFormat = "15:04"
)
