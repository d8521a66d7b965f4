package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/currency"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Currency     *string `help:"ISO 4217 code amounts are entered in, e.g. RUB or USD."`
	Language     *string `help:"Interface language (en|ru)."`
	ResetWelcome bool    `help:"Show the welcome screen again on the next TUI start."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Currency:      %s\n", settings.Currency)
		fmt.Printf("  Language:      %s\n", settings.Language)
		fmt.Printf("  Welcome Seen:  %v\n", settings.WelcomeSeen)
		if !currency.Known(settings.Currency) {
			fmt.Printf("\n  Note: no conversion rate for %s; achievements count one unit as one %s.\n",
				settings.Currency, constants.ReferenceCurrency)
		}
		return nil
	}

	updated := false
	if c.Currency != nil {
		settings.Currency = strings.ToUpper(strings.TrimSpace(*c.Currency))
		updated = true
	}
	if c.Language != nil {
		settings.Language = strings.TrimSpace(*c.Language)
		updated = true
	}
	if c.ResetWelcome {
		settings.WelcomeSeen = false
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Validator.Settings(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
