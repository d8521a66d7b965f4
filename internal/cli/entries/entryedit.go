package entries

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/validation"
)

type EntryEditCmd struct {
	ID       string `arg:"" help:"Entry ID to edit."`
	Name     string `help:"New name."`
	Amount   string `help:"New positive amount."`
	Kind     string `help:"New kind (saved|wasted)."`
	Category string `short:"c" help:"New category label."`
	Date     string `short:"d" help:"New date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)."`
}

func (c *EntryEditCmd) Run(ctx *cli.Context) error {
	existing, err := ctx.Store.GetEntry(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find entry with ID %s: %w", c.ID, err)
	}

	// Start from the stored entry so an edit always replaces every field
	in := validation.EntryInput{
		ID:        existing.ID,
		Name:      existing.Name,
		Amount:    existing.Amount.Abs().String(),
		Kind:      models.KindOf(existing.Amount),
		Category:  existing.Category,
		Timestamp: existing.Timestamp,
	}
	if c.Name != "" {
		in.Name = c.Name
	}
	if c.Amount != "" {
		in.Amount = c.Amount
	}
	if c.Kind != "" {
		in.Kind = models.EntryKind(c.Kind)
	}
	if c.Category != "" {
		in.Category = c.Category
	}
	if c.Date != "" {
		ts, err := cli.ParseDate(c.Date)
		if err != nil {
			return err
		}
		in.Timestamp = ts
	}

	entry, err := ctx.Validator.Entry(in)
	if err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	if entry.Category != existing.Category {
		if err := registerCategory(ctx, entry.Category); err != nil {
			return err
		}
	}
	if err := ctx.Store.UpdateEntry(entry); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	fmt.Printf("Updated entry: %s (ID: %s)\n", entry.Name, entry.ID)
	return nil
}
