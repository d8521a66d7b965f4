package goals

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/validation"
)

type GoalEditCmd struct {
	ID          string  `arg:"" help:"Goal ID to edit."`
	Name        string  `help:"New name."`
	Target      string  `help:"New target amount."`
	Description *string `short:"D" help:"New description (empty to clear)."`
	From        string  `short:"f" help:"New counts-from date (YYYY-MM-DD)."`
	Yes         bool    `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalEditCmd) Run(ctx *cli.Context) error {
	board, err := loadBoard(ctx)
	if err != nil {
		return err
	}
	status, ok := board.Find(c.ID)
	if !ok {
		return fmt.Errorf("failed to find goal with ID %s", c.ID)
	}
	existing := status.Goal

	in := validation.GoalInput{
		ID:          existing.ID,
		Name:        existing.Name,
		Description: existing.Description,
		Target:      existing.TargetAmount.String(),
		CreatedAt:   existing.CreatedAt,
		CountsFrom:  existing.CountsFrom,
	}
	if c.Name != "" {
		in.Name = c.Name
	}
	if c.Target != "" {
		in.Target = c.Target
	}
	if c.Description != nil {
		in.Description = *c.Description
	}
	if c.From != "" {
		from, err := cli.ParseDate(c.From)
		if err != nil {
			return err
		}
		in.CountsFrom = from
	}

	goal, err := ctx.Validator.Goal(in)
	if err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}
	if err := board.RequestEdit(goal); err != nil {
		return err
	}

	applied, err := confirmPending(ctx, board, fmt.Sprintf("Save changes to goal %q?", existing.Name), c.Yes)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("Edit cancelled.")
		return nil
	}

	fmt.Printf("Updated goal: %s (ID: %s)\n", goal.Name, goal.ID)
	return nil
}
