package models

// Settings represents application-wide settings
type Settings struct {
	Currency    string `json:"currency"`     // ISO 4217 code amounts are entered in, e.g. "RUB"
	Language    string `json:"language"`     // UI language code, e.g. "en"
	WelcomeSeen bool   `json:"welcome_seen"` // whether the welcome screen was dismissed
}
