package models

import (
	"testing"

	"github.com/julianstephens/thrift/internal/constants"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	in := Settings{Currency: "EUR", Language: "ru", WelcomeSeen: true}

	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestMapToSettings_BadBool(t *testing.T) {
	_, err := MapToSettings(map[string]string{constants.SettingWelcomeSeen: "maybe"})
	if err == nil {
		t.Fatal("expected error for unparseable welcome flag")
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	s := Settings{}
	ApplyDefaultSettings(&s)
	if s.Currency != constants.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", s.Currency, constants.DefaultCurrency)
	}
	if s.Language != constants.DefaultLanguage {
		t.Errorf("Language = %q, want %q", s.Language, constants.DefaultLanguage)
	}

	s = Settings{Currency: "USD", Language: "ru"}
	ApplyDefaultSettings(&s)
	if s.Currency != "USD" || s.Language != "ru" {
		t.Errorf("defaults overwrote explicit values: %+v", s)
	}
}
