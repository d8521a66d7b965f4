package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/thrift/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingCurrency:
			settings.Currency = value
		case constants.SettingLanguage:
			settings.Language = value
		case constants.SettingWelcomeSeen:
			seen, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingWelcomeSeen, err)
			}
			settings.WelcomeSeen = seen
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingCurrency:    settings.Currency,
		constants.SettingLanguage:    settings.Language,
		constants.SettingWelcomeSeen: strconv.FormatBool(settings.WelcomeSeen),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Currency == "" {
		settings.Currency = constants.DefaultCurrency
	}
	if settings.Language == "" {
		settings.Language = constants.DefaultLanguage
	}
}

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency:    constants.DefaultCurrency,
		Language:    constants.DefaultLanguage,
		WelcomeSeen: constants.DefaultWelcomeSeen,
	}
}
