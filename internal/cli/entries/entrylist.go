package entries

import (
	"fmt"
	"time"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

type EntryListCmd struct {
	Period   string `help:"Only show entries from this period (all|today|week|month|year)." enum:"all,today,week,month,year" default:"all"`
	Category string `short:"c" help:"Only show entries with this category label."`
	Limit    int    `short:"n" help:"Show at most this many entries (0 for all)." default:"0"`
	ShowIDs  bool   `help:"Show entry IDs." name:"show-ids"`
}

// filter keeps entries inside the period and category, newest first as stored.
func (c *EntryListCmd) filter(entries []models.Entry, today time.Time) []models.Entry {
	var window *pipeline.Window
	if c.Period != "all" {
		w := pipeline.WindowFor(pipeline.Period(c.Period), today)
		window = &w
	}

	var out []models.Entry
	for _, e := range entries {
		if window != nil && !window.Contains(e.Timestamp) {
			continue
		}
		if c.Category != "" && e.Category != c.Category {
			continue
		}
		out = append(out, e)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	shown := c.filter(entries, time.Now())
	if len(shown) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render("Entries:"))
	day := ""
	for _, e := range shown {
		if e.Day() != day {
			day = e.Day()
			fmt.Printf("\n  %s\n", cli.MutedStyle.Render(day))
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", e.ID)
		}
		fmt.Printf("    %s  %-24s %s  [%s]%s\n",
			e.Timestamp.Format(constants.TimeFormat), e.Name,
			cli.StyleAmount(e.Amount, settings.Currency), e.Category, idStr)
	}

	totals := pipeline.ComputeTotals(shown)
	fmt.Printf("\n  %d entries, net %s\n", len(shown), cli.StyleAmount(totals.Net, settings.Currency))
	return nil
}
