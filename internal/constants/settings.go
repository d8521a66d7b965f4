package constants

const (
	// General Settings
	SettingCurrency    = "currency"
	SettingLanguage    = "language"
	SettingWelcomeSeen = "welcome_seen"

	// Default Settings Values
	DefaultCurrency    = "RUB"
	DefaultLanguage    = "en"
	DefaultWelcomeSeen = false

	// ReferenceCurrency is the unit achievement thresholds are expressed in
	ReferenceCurrency = "RUB"
)

// SupportedLanguages lists the UI language codes accepted by the settings command
var SupportedLanguages = []string{"en", "ru"}
