package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/pipeline"
)

var periodLabels = map[pipeline.Period]string{
	pipeline.PeriodToday: "Today",
	pipeline.PeriodWeek:  "This week",
	pipeline.PeriodMonth: "This month",
	pipeline.PeriodYear:  "This year",
}

type StatsCmd struct {
	Categories bool `help:"Show the per-category breakdown." default:"true" negatable:""`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	snap, err := pipeline.New(ctx.Store, nil).Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}
	cur := snap.Currency

	fmt.Println(cli.HeaderStyle.Render("Totals:"))
	fmt.Printf("  %-12s %s\n", "Saved:", cli.StyleAmount(snap.Totals.Saved, cur))
	fmt.Printf("  %-12s %s\n", "Wasted:", cli.StyleAmount(snap.Totals.Wasted.Neg(), cur))
	fmt.Printf("  %-12s %s\n", "Net:", cli.StyleAmount(snap.Totals.Net, cur))
	fmt.Printf("  %-12s %d day(s)\n", "Streak:", snap.Streak)
	fmt.Printf("  %-12s %d\n", "Entries:", snap.EntryCount)

	fmt.Println()
	fmt.Println(cli.HeaderStyle.Render("Periods:"))
	for _, p := range pipeline.AllPeriods {
		t := snap.Periods[p]
		fmt.Printf("  %-12s saved %s  wasted %s  net %s\n", periodLabels[p]+":",
			cli.StyleAmount(t.Saved, cur), cli.StyleAmount(t.Wasted.Neg(), cur), cli.StyleAmount(t.Net, cur))
	}

	if c.Categories && len(snap.Categories) > 0 {
		fmt.Println()
		fmt.Println(cli.HeaderStyle.Render("Categories:"))
		for i, g := range snap.Categories {
			share := snap.Slices[i].Sweep / 360 * 100
			bar := strings.Repeat("■", int(share/5+0.5))
			fmt.Printf("  %-20s %s  %5.1f%% %s\n", g.Category, cli.StyleAmount(g.Total, cur), share, cli.MutedStyle.Render(bar))
		}
	}
	return nil
}

type AchievementsCmd struct {
	Achieved bool `help:"Only show achievements already earned."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	snap, err := pipeline.New(ctx.Store, nil).Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute achievements: %w", err)
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Achievements: %d of %d earned",
		pipeline.CountAchieved(snap.Achievements), len(snap.Achievements))))
	for _, a := range snap.Achievements {
		if c.Achieved && !a.Achieved {
			continue
		}
		mark := "○"
		if a.Achieved {
			mark = "✓"
		}
		fmt.Printf("  %s %-16s %s %.0f / %.0f\n", mark, a.Definition.ID,
			cli.ProgressBar(a.Fraction(), 20), a.Current, a.Definition.Target)
	}
	return nil
}
