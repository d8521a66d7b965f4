package goals

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return cli.NewContext(store)
}

func addGoal(t *testing.T, ctx *cli.Context, name, target string) models.Goal {
	t.Helper()
	cmd := GoalAddCmd{Name: name, Target: target, From: "2024-01-01"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range goals {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("goal %q not stored", name)
	return models.Goal{}
}

func TestGoalAddCmd(t *testing.T) {
	ctx := setupTestDB(t)
	g := addGoal(t, ctx, "Bike", "15000.50")

	if !g.TargetAmount.Equal(decimal.RequireFromString("15000.5")) {
		t.Errorf("target = %s", g.TargetAmount)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	if !g.CountsFrom.Equal(want) {
		t.Errorf("counts from = %v, want %v", g.CountsFrom, want)
	}

	for _, target := range []string{"0", "-5", "abc"} {
		bad := GoalAddCmd{Name: "Bad", Target: target}
		if err := bad.Run(ctx); !errors.Is(err, models.ErrInvalidTarget) {
			t.Errorf("target %q: error = %v, want ErrInvalidTarget", target, err)
		}
	}
}

func TestGoalEditCmd(t *testing.T) {
	ctx := setupTestDB(t)
	g := addGoal(t, ctx, "Bike", "1000")

	ctx.In = strings.NewReader("n\n")
	if err := (&GoalEditCmd{ID: g.ID, Target: "2000"}).Run(ctx); err != nil {
		t.Fatalf("goal edit failed: %v", err)
	}
	got, _ := ctx.Store.GetGoal(g.ID)
	if !got.TargetAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("declined edit changed target to %s", got.TargetAmount)
	}

	desc := "road bike"
	ctx.In = strings.NewReader("y\n")
	if err := (&GoalEditCmd{ID: g.ID, Target: "2000", Description: &desc}).Run(ctx); err != nil {
		t.Fatalf("goal edit failed: %v", err)
	}
	got, _ = ctx.Store.GetGoal(g.ID)
	if !got.TargetAmount.Equal(decimal.NewFromInt(2000)) || got.Description != desc {
		t.Errorf("confirmed edit not applied: %+v", got)
	}
	if got.Name != "Bike" || !got.CreatedAt.Equal(g.CreatedAt) {
		t.Errorf("edit changed untouched fields: %+v", got)
	}

	if err := (&GoalEditCmd{ID: "missing", Name: "x", Yes: true}).Run(ctx); err == nil {
		t.Error("expected error editing a missing goal")
	}
}

func TestGoalDeleteCmd(t *testing.T) {
	ctx := setupTestDB(t)
	g := addGoal(t, ctx, "Bike", "1000")

	ctx.In = strings.NewReader("\n")
	if err := (&GoalDeleteCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Fatalf("goal delete failed: %v", err)
	}
	if _, err := ctx.Store.GetGoal(g.ID); err != nil {
		t.Errorf("declined delete removed the goal: %v", err)
	}

	if err := (&GoalDeleteCmd{ID: g.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("goal delete failed: %v", err)
	}
	if _, err := ctx.Store.GetGoal(g.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetGoal() after delete error = %v, want ErrNotFound", err)
	}

	if err := (&GoalDeleteCmd{ID: g.ID, Yes: true}).Run(ctx); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestGoalListCmd(t *testing.T) {
	ctx := setupTestDB(t)
	small := addGoal(t, ctx, "Coffee fund", "10")
	addGoal(t, ctx, "Car", "100000")

	entry := models.Entry{ID: "e1", Name: "Skipped coffee", Amount: decimal.NewFromInt(20), Category: "Food", Timestamp: time.Now()}
	if err := ctx.Store.AddEntry(entry); err != nil {
		t.Fatal(err)
	}

	board, err := loadBoard(ctx)
	if err != nil {
		t.Fatalf("loadBoard() error: %v", err)
	}
	if len(board.Completed()) != 1 || board.Completed()[0].Goal.ID != small.ID {
		t.Errorf("completed goals = %+v", board.Completed())
	}
	if len(board.Active()) != 1 {
		t.Errorf("active goals = %+v", board.Active())
	}

	for _, cmd := range []GoalListCmd{{}, {Completed: true, ShowIDs: true}} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("goal list failed: %v", err)
		}
	}
}
