package goalboard

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

type fakeStore struct {
	updated []models.Goal
	deleted []string
	err     error
}

func (f *fakeStore) UpdateGoal(g models.Goal) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, g)
	return nil
}

func (f *fakeStore) DeleteGoal(id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func setupBoard(t *testing.T) (*Board, *fakeStore) {
	t.Helper()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	goals := []models.Goal{
		{ID: "bike", Name: "Bike", TargetAmount: decimal.NewFromInt(1000), CountsFrom: from},
		{ID: "coffee", Name: "Coffee machine", TargetAmount: decimal.NewFromInt(100), CountsFrom: from},
		{ID: "trip", Name: "Trip", TargetAmount: decimal.NewFromInt(5000), CountsFrom: from},
	}
	entries := []models.Entry{{ID: "e1", Name: "Lunch", Amount: decimal.NewFromInt(300), Category: "Food", Timestamp: from.AddDate(0, 1, 0)}}

	store := &fakeStore{}
	board := New(store)
	board.Update(pipeline.EvaluateGoals(goals, entries))
	return board, store
}

func ids(statuses []pipeline.GoalStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.Goal.ID
	}
	return out
}

func TestBoard_Partition(t *testing.T) {
	board, _ := setupBoard(t)

	active := ids(board.Active())
	if len(active) != 2 || active[0] != "bike" || active[1] != "trip" {
		t.Errorf("Active() = %v, want [bike trip]", active)
	}
	completed := ids(board.Completed())
	if len(completed) != 1 || completed[0] != "coffee" {
		t.Errorf("Completed() = %v, want [coffee]", completed)
	}
}

func TestBoard_DeleteRequiresConfirm(t *testing.T) {
	board, store := setupBoard(t)

	if err := board.RequestDelete("bike"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatal("store touched before confirmation")
	}

	p, ok := board.Pending()
	if !ok || p.Kind != ActionDelete || p.Goal.ID != "bike" {
		t.Errorf("Pending() = %+v, %v", p, ok)
	}

	if err := board.Confirm(); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "bike" {
		t.Errorf("deleted = %v, want [bike]", store.deleted)
	}
	if _, ok := board.Pending(); ok {
		t.Error("pending action should be consumed")
	}
	if err := board.Confirm(); !errors.Is(err, ErrNoPending) {
		t.Errorf("second Confirm() error = %v, want ErrNoPending", err)
	}
}

func TestBoard_Cancel(t *testing.T) {
	board, store := setupBoard(t)

	if err := board.RequestDelete("trip"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	board.Cancel()

	if _, ok := board.Pending(); ok {
		t.Error("Cancel() should clear the pending action")
	}
	if err := board.Confirm(); !errors.Is(err, ErrNoPending) {
		t.Errorf("Confirm() after Cancel error = %v, want ErrNoPending", err)
	}
	if len(store.deleted) != 0 {
		t.Errorf("store touched after cancel: %v", store.deleted)
	}
}

func TestBoard_AtMostOnePending(t *testing.T) {
	board, store := setupBoard(t)

	if err := board.RequestDelete("bike"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	if err := board.RequestDelete("trip"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	if err := board.Confirm(); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "trip" {
		t.Errorf("deleted = %v, want only the latest request [trip]", store.deleted)
	}
}

func TestBoard_EditCompletedGoal(t *testing.T) {
	board, store := setupBoard(t)

	status, ok := board.Find("coffee")
	if !ok {
		t.Fatal("coffee goal not found")
	}
	edited := status.Goal
	edited.TargetAmount = decimal.NewFromInt(150)

	if err := board.RequestEdit(edited); err != nil {
		t.Fatalf("RequestEdit() error: %v", err)
	}
	if err := board.Confirm(); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if len(store.updated) != 1 || !store.updated[0].TargetAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("updated = %v", store.updated)
	}
}

func TestBoard_UnknownGoal(t *testing.T) {
	board, _ := setupBoard(t)

	if err := board.RequestDelete("nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("RequestDelete() error = %v, want ErrNotFound", err)
	}
	if err := board.RequestEdit(models.Goal{ID: "nope"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("RequestEdit() error = %v, want ErrNotFound", err)
	}
}

func TestBoard_StoreFailureConsumesPending(t *testing.T) {
	board, store := setupBoard(t)
	store.err = errors.New("database is locked")

	if err := board.RequestDelete("bike"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	if err := board.Confirm(); !errors.Is(err, store.err) {
		t.Errorf("Confirm() error = %v, want %v", err, store.err)
	}
	if _, ok := board.Pending(); ok {
		t.Error("failed action should not stay pending")
	}
}

func TestBoard_UpdateDropsVanishedPending(t *testing.T) {
	board, _ := setupBoard(t)

	if err := board.RequestDelete("bike"); err != nil {
		t.Fatalf("RequestDelete() error: %v", err)
	}
	board.Update(nil)
	if _, ok := board.Pending(); ok {
		t.Error("pending action for a vanished goal should be dropped")
	}
}
