package goals

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/pipeline"
)

type GoalListCmd struct {
	Completed bool `help:"Show completed goals instead of active ones."`
	ShowIDs   bool `help:"Show goal IDs." name:"show-ids"`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	board, err := loadBoard(ctx)
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	title, goals := "Active goals:", board.Active()
	if c.Completed {
		title, goals = "Completed goals:", board.Completed()
	}
	if len(goals) == 0 {
		fmt.Println("No goals found")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(title))
	for _, g := range goals {
		c.printGoal(g, settings.Currency)
	}
	return nil
}

func (c *GoalListCmd) printGoal(g pipeline.GoalStatus, currency string) {
	idStr := ""
	if c.ShowIDs {
		idStr = fmt.Sprintf(" (ID: %s)", g.Goal.ID)
	}
	fmt.Printf("\n  %s%s\n", g.Goal.Name, idStr)
	if g.Goal.Description != "" {
		fmt.Printf("    %s\n", cli.MutedStyle.Render(g.Goal.Description))
	}
	fmt.Printf("    %s %3.0f%%  %s / %s %s\n",
		cli.ProgressBar(g.Fraction, 20), g.Fraction*100,
		g.Display.StringFixed(2), g.Goal.TargetAmount.StringFixed(2), currency)
	fmt.Printf("    %s\n", cli.MutedStyle.Render("counting from "+g.Goal.CountsFrom.Format(constants.DateFormat)))
}
