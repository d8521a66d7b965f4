package goals

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
)

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"Goal ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	board, err := loadBoard(ctx)
	if err != nil {
		return err
	}
	if err := board.RequestDelete(c.ID); err != nil {
		return fmt.Errorf("failed to find goal with ID %s: %w", c.ID, err)
	}
	pending, _ := board.Pending()

	applied, err := confirmPending(ctx, board, fmt.Sprintf("Delete goal %q?", pending.Goal.Name), c.Yes)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("Delete cancelled.")
		return nil
	}

	fmt.Printf("Deleted goal: %s (ID: %s)\n", pending.Goal.Name, c.ID)
	return nil
}
