package goals

import (
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/goalboard"
	"github.com/julianstephens/thrift/internal/pipeline"
)

// loadBoard builds a goal board over the current store contents.
func loadBoard(ctx *cli.Context) (*goalboard.Board, error) {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	board := goalboard.New(ctx.Store)
	board.Update(pipeline.EvaluateGoals(goals, entries))
	return board, nil
}

// confirmPending asks about the board's pending action and applies or drops it.
func confirmPending(ctx *cli.Context, board *goalboard.Board, prompt string, skip bool) (bool, error) {
	if !skip {
		ok, err := ctx.Confirm(prompt)
		if err != nil {
			board.Cancel()
			return false, err
		}
		if !ok {
			board.Cancel()
			return false, nil
		}
	}
	if err := board.Confirm(); err != nil {
		return false, err
	}
	return true, nil
}
