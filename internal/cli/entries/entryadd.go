package entries

import (
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/validation"
)

type EntryAddCmd struct {
	Name     string `arg:"" help:"What the money was saved on or wasted on."`
	Amount   string `arg:"" help:"Positive amount; use --wasted for money spent needlessly."`
	Wasted   bool   `short:"w" help:"Record the amount as wasted instead of saved."`
	Category string `short:"c" help:"Category label." required:""`
	Date     string `short:"d" help:"Date (YYYY-MM-DD or YYYY-MM-DDTHH:MM). Defaults to now."`
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	ts, err := cli.ParseDate(c.Date)
	if err != nil {
		return err
	}

	kind := models.KindSaved
	if c.Wasted {
		kind = models.KindWasted
	}

	entry, err := ctx.Validator.Entry(validation.EntryInput{
		Name:      c.Name,
		Amount:    c.Amount,
		Kind:      kind,
		Category:  c.Category,
		Timestamp: ts,
	})
	if err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}

	if err := registerCategory(ctx, entry.Category); err != nil {
		return err
	}
	if err := ctx.Store.AddEntry(entry); err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	fmt.Printf("Added entry: %s %s [%s] (ID: %s)\n",
		entry.Name, cli.FormatAmount(entry.Amount, settings.Currency), entry.Category, entry.ID)
	return nil
}

// registerCategory adds label to the category registry unless it is already there.
func registerCategory(ctx *cli.Context, label string) error {
	category, err := ctx.Validator.Category(label)
	if err != nil {
		return err
	}
	err = ctx.Store.AddCategory(category)
	if err != nil && !errors.Is(err, models.ErrDuplicateCategory) {
		return fmt.Errorf("failed to register category %q: %w", label, err)
	}
	return nil
}
