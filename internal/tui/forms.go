package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/validation"
)

func validateAmount(s string) error {
	_, err := validation.ParseAmount(s)
	return err
}

func validateDate(s string) error {
	_, err := cli.ParseDate(s)
	return err
}

func newEntryFormModel(e *models.Entry) *EntryFormModel {
	if e == nil {
		return &EntryFormModel{Kind: models.KindSaved}
	}
	return &EntryFormModel{
		Name:     e.Name,
		Amount:   e.Amount.Abs().String(),
		Kind:     models.KindOf(e.Amount),
		Category: e.Category,
		Date:     e.Timestamp.Format(constants.DateTimeFormat),
	}
}

func (m *Model) buildEntryForm(title string) *huh.Form {
	f := m.entryForm
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name),
			huh.NewInput().
				Title("Amount").
				Description("Positive number; choose the direction below").
				Value(&f.Amount).
				Validate(validateAmount),
			huh.NewSelect[models.EntryKind]().
				Title("Kind").
				Options(
					huh.NewOption("Saved", models.KindSaved),
					huh.NewOption("Wasted", models.KindWasted),
				).
				Value(&f.Kind),
			huh.NewInput().
				Title("Category").
				Suggestions(m.categories).
				Value(&f.Category),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD or YYYY-MM-DDTHH:MM; empty means now").
				Value(&f.Date).
				Validate(validateDate),
		).Title(title),
	).WithShowHelp(true)
}

func newGoalFormModel(g *models.Goal) *GoalFormModel {
	if g == nil {
		return &GoalFormModel{}
	}
	return &GoalFormModel{
		Name:        g.Name,
		Target:      g.TargetAmount.String(),
		Description: g.Description,
		From:        g.CountsFrom.Format(constants.DateTimeFormat),
	}
}

func (m *Model) buildGoalForm(title string) *huh.Form {
	f := m.goalForm
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name),
			huh.NewInput().
				Title("Target").
				Value(&f.Target).
				Validate(validateAmount),
			huh.NewText().
				Title("Description").
				Value(&f.Description),
			huh.NewInput().
				Title("Count entries from").
				Description("YYYY-MM-DD; empty means from creation").
				Value(&f.From).
				Validate(validateDate),
		).Title(title),
	).WithShowHelp(true)
}

func (m *Model) buildSettingsForm() *huh.Form {
	f := m.settingsForm
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code, e.g. RUB, USD, EUR").
				Value(&f.Currency),
			huh.NewSelect[string]().
				Title("Language").
				Options(huh.NewOptions(constants.SupportedLanguages...)...).
				Value(&f.Language),
		).Title("Settings"),
	).WithShowHelp(true)
}
