package goals

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/validation"
)

type GoalAddCmd struct {
	Name        string `arg:"" help:"Goal name."`
	Target      string `arg:"" help:"Target amount, greater than zero."`
	Description string `short:"D" help:"Optional description."`
	From        string `short:"f" help:"Count entries from this date (YYYY-MM-DD). Defaults to now."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	from, err := cli.ParseDate(c.From)
	if err != nil {
		return err
	}

	goal, err := ctx.Validator.Goal(validation.GoalInput{
		Name:        c.Name,
		Description: c.Description,
		Target:      c.Target,
		CountsFrom:  from,
	})
	if err != nil {
		return fmt.Errorf("invalid goal: %w", err)
	}

	if err := ctx.Store.AddGoal(goal); err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}

	fmt.Printf("Added goal: %s, target %s (ID: %s)\n", goal.Name, goal.TargetAmount.StringFixed(2), goal.ID)
	return nil
}
