package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/models"
)

// GoalStatus is a goal with its derived progress.
type GoalStatus struct {
	Goal models.Goal
	// Progress is the raw sum and may exceed the target.
	Progress decimal.Decimal
	// Display is Progress capped at the target.
	Display   decimal.Decimal
	Fraction  float64
	Completed bool
}

// GoalProgress sums every entry dated on or after the goal's CountsFrom.
func GoalProgress(goal models.Goal, entries []models.Entry) GoalStatus {
	progress := decimal.Zero
	for _, e := range entries {
		if goal.Counts(e.Timestamp) {
			progress = progress.Add(e.Amount)
		}
	}

	status := GoalStatus{
		Goal:      goal,
		Progress:  progress,
		Display:   decimal.Min(progress, goal.TargetAmount),
		Completed: progress.GreaterThanOrEqual(goal.TargetAmount),
	}

	if !goal.TargetAmount.IsPositive() {
		status.Fraction = 1
		return status
	}
	f := status.Display.Div(goal.TargetAmount).InexactFloat64()
	switch {
	case f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	status.Fraction = f
	return status
}

// EvaluateGoals derives the status of every goal, keeping input order.
func EvaluateGoals(goals []models.Goal, entries []models.Entry) []GoalStatus {
	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		statuses = append(statuses, GoalProgress(g, entries))
	}
	return statuses
}

// PartitionGoals splits statuses into active and completed, keeping order.
func PartitionGoals(statuses []GoalStatus) (active, completed []GoalStatus) {
	for _, s := range statuses {
		if s.Completed {
			completed = append(completed, s)
		} else {
			active = append(active, s)
		}
	}
	return active, completed
}
