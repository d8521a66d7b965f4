package entries

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
)

type EntryDeleteCmd struct {
	ID  string `arg:"" help:"Entry ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetEntry(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find entry with ID %s: %w", c.ID, err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete entry %q from %s?", entry.Name, entry.Day()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteEntry(c.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	fmt.Printf("Deleted entry: %s (ID: %s)\n", entry.Name, c.ID)
	return nil
}
