package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/pipeline"
	"github.com/julianstephens/thrift/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Snapshot on startup, after a successful load
	ctx.PerformAutomaticSnapshot()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe := pipeline.New(ctx.Store, nil)
	stop := pipe.Start(runCtx, ctx.Store.Broker())
	defer stop()

	p := tea.NewProgram(tui.NewModel(ctx.Store, pipe, ctx.Validator), tea.WithAltScreen())
	// Snapshots computed after store writes reach the program as messages
	unsubscribe := pipe.Subscribe(func(s pipeline.Snapshot) { p.Send(tui.SnapshotMsg(s)) })
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with an error: %w", err)
	}
	return nil
}
