package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
	"github.com/julianstephens/thrift/internal/storage/sqlite"
	"github.com/julianstephens/thrift/internal/tui/components/entries"
	"github.com/julianstephens/thrift/internal/tui/components/goals"
	"github.com/julianstephens/thrift/internal/validation"
)

func setupTestModel(t *testing.T) (Model, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ts := time.Now().Add(-time.Hour)
	if err := store.AddEntry(models.Entry{ID: "e1", Name: "Coffee", Amount: decimal.NewFromInt(50), Category: "Food", Timestamp: ts}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddGoal(models.Goal{ID: "g1", Name: "Bike", TargetAmount: decimal.NewFromInt(1000), CreatedAt: ts, CountsFrom: ts}); err != nil {
		t.Fatal(err)
	}

	m := NewModel(store, pipeline.New(store, nil), validation.New())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), store
}

// feed runs msg through Update and then every command it produces, one level deep.
func feed(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	if cmd == nil {
		return m
	}
	if next := cmd(); next != nil {
		if _, isBatch := next.(tea.BatchMsg); !isBatch {
			updated, _ = m.Update(next)
			m = updated.(Model)
		}
	}
	return m
}

func snapshotMsg(t *testing.T, m Model) SnapshotMsg {
	t.Helper()
	snap, err := m.pipe.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	return SnapshotMsg(snap)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSnapshotMsg_UpdatesViews(t *testing.T) {
	m, _ := setupTestModel(t)

	m = feed(t, m, snapshotMsg(t, m))

	if !m.hasSnapshot {
		t.Fatal("snapshot not applied")
	}
	if got := len(m.board.Active()); got != 1 {
		t.Errorf("active goals = %d, want 1", got)
	}
	if len(m.categories) != 0 {
		t.Errorf("categories = %v, want none registered", m.categories)
	}
	if m.settings.Currency != constants.DefaultCurrency {
		t.Errorf("currency = %q, want %q", m.settings.Currency, constants.DefaultCurrency)
	}
	// A fresh store has not shown the welcome screen yet
	if m.state != constants.StateWelcome {
		t.Errorf("state = %v, want welcome", m.state)
	}
}

func TestWelcome_Dismiss(t *testing.T) {
	m, store := setupTestModel(t)
	m = feed(t, m, snapshotMsg(t, m))

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != constants.StateEntries {
		t.Errorf("state = %v, want entries", m.state)
	}
	s, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if !s.WelcomeSeen {
		t.Error("welcome flag was not persisted")
	}
}

func TestStatusClearsOnNextKey(t *testing.T) {
	m, _ := setupTestModel(t)
	m.welcomeChecked = true

	updated, _ := m.Update(opDoneMsg{op: "delete entry", err: models.ErrNotFound})
	m = updated.(Model)
	if m.status != "Item no longer exists" || !m.statusError {
		t.Fatalf("status = %q (error %v), want not-found message", m.status, m.statusError)
	}

	updated, _ = m.Update(keyRune('?'))
	m = updated.(Model)
	if m.status != "" {
		t.Errorf("status = %q, want cleared after key press", m.status)
	}
}

func TestOpDone_SuccessShowsInfo(t *testing.T) {
	m, _ := setupTestModel(t)

	updated, cmd := m.Update(opDoneMsg{op: "add entry", info: "Entry added"})
	m = updated.(Model)
	if m.status != "Entry added" || m.statusError {
		t.Errorf("status = %q (error %v)", m.status, m.statusError)
	}
	if cmd == nil {
		t.Error("expected a reload after a successful write")
	}
}

func TestTabNavigation(t *testing.T) {
	m, _ := setupTestModel(t)

	tests := []struct {
		name  string
		from  constants.SessionState
		key   tea.KeyMsg
		wantS constants.SessionState
	}{
		{"tab forward", constants.StateEntries, tea.KeyMsg{Type: tea.KeyTab}, constants.StateGoals},
		{"tab wraps", constants.StateSettings, tea.KeyMsg{Type: tea.KeyTab}, constants.StateEntries},
		{"shift+tab wraps", constants.StateEntries, tea.KeyMsg{Type: tea.KeyShiftTab}, constants.StateSettings},
		{"shift+tab back", constants.StateStats, tea.KeyMsg{Type: tea.KeyShiftTab}, constants.StateGoals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.state = tt.from
			updated, _ := m.Update(tt.key)
			if got := updated.(Model).state; got != tt.wantS {
				t.Errorf("state = %v, want %v", got, tt.wantS)
			}
		})
	}
}

func TestGoalDelete_RequiresConfirmation(t *testing.T) {
	m, store := setupTestModel(t)
	m = feed(t, m, snapshotMsg(t, m))
	m.state = constants.StateGoals

	m = feed(t, m, goals.DeleteGoalMsg{ID: "g1"})
	if m.state != constants.StateConfirmDeleteGoal {
		t.Fatalf("state = %v, want confirm delete goal", m.state)
	}

	m = feed(t, m, keyRune('n'))
	if m.state != constants.StateGoals {
		t.Errorf("state after cancel = %v, want goals", m.state)
	}
	if _, ok := m.board.Pending(); ok {
		t.Error("cancel left a pending action")
	}
	if _, err := store.GetGoal("g1"); err != nil {
		t.Fatalf("goal removed without confirmation: %v", err)
	}

	m = feed(t, m, goals.DeleteGoalMsg{ID: "g1"})
	m = feed(t, m, keyRune('y'))
	if _, err := store.GetGoal("g1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("goal still present after confirm, err = %v", err)
	}
	if m.status != "Goal deleted" {
		t.Errorf("status = %q, want %q", m.status, "Goal deleted")
	}
}

func TestGoalDelete_UnknownGoal(t *testing.T) {
	m, _ := setupTestModel(t)
	m.state = constants.StateGoals

	m = feed(t, m, goals.DeleteGoalMsg{ID: "missing"})
	if m.state != constants.StateGoals {
		t.Errorf("state = %v, want goals", m.state)
	}
	if !m.statusError {
		t.Error("expected an error status for an unknown goal")
	}
}

func TestGoalEdit_VanishedWhilePending(t *testing.T) {
	m, store := setupTestModel(t)
	m = feed(t, m, snapshotMsg(t, m))

	g, _ := store.GetGoal("g1")
	g.Name = "Road bike"
	if err := m.board.RequestEdit(g); err != nil {
		t.Fatal(err)
	}
	m.state = constants.StateConfirmEditGoal

	if err := store.DeleteGoal("g1"); err != nil {
		t.Fatal(err)
	}
	m = feed(t, m, snapshotMsg(t, m))

	if m.state != constants.StateGoals {
		t.Errorf("state = %v, want goals", m.state)
	}
	if m.status != "Item no longer exists" {
		t.Errorf("status = %q", m.status)
	}
}

func TestEntryDelete_Confirm(t *testing.T) {
	m, store := setupTestModel(t)
	m = feed(t, m, snapshotMsg(t, m))
	m.state = constants.StateEntries

	e, _ := store.GetEntry("e1")
	m = feed(t, m, entries.DeleteEntryMsg{Entry: e})
	if m.state != constants.StateConfirmDeleteEntry {
		t.Fatalf("state = %v, want confirm delete entry", m.state)
	}

	m = feed(t, m, keyRune('y'))
	if m.state != constants.StateEntries {
		t.Errorf("state = %v, want entries", m.state)
	}
	if _, err := store.GetEntry("e1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("entry still present, err = %v", err)
	}
}

func TestSubmitEntry(t *testing.T) {
	m, store := setupTestModel(t)

	t.Run("valid entry registers its category", func(t *testing.T) {
		updated, _ := m.openEntryForm(nil)
		mm := updated.(Model)
		*mm.entryForm = EntryFormModel{Name: "Taxi", Amount: "12,50", Kind: models.KindWasted, Category: "Transport"}

		updated, cmd := mm.submitForm()
		mm = updated.(Model)
		if mm.state != constants.StateEntries {
			t.Errorf("state = %v, want entries", mm.state)
		}
		if cmd == nil {
			t.Fatal("expected a save command")
		}
		done, ok := cmd().(opDoneMsg)
		if !ok || done.err != nil {
			t.Fatalf("save failed: %+v", done)
		}

		all, _ := store.GetAllEntries()
		var found bool
		for _, e := range all {
			if e.Name == "Taxi" {
				found = true
				if !e.Amount.Equal(decimal.RequireFromString("-12.5")) {
					t.Errorf("amount = %s, want -12.5", e.Amount)
				}
			}
		}
		if !found {
			t.Error("entry was not stored")
		}
		if _, err := store.GetCategoryByName("Transport"); err != nil {
			t.Errorf("category not registered: %v", err)
		}
	})

	t.Run("untouched date keeps the stored time", func(t *testing.T) {
		e, err := store.GetEntry("e1")
		if err != nil {
			t.Fatalf("GetEntry() error: %v", err)
		}
		updated, _ := m.openEntryForm(&e)
		mm := updated.(Model)
		mm.entryForm.Name = "Latte"

		_, cmd := mm.submitForm()
		if cmd == nil {
			t.Fatal("expected a save command")
		}
		if done, ok := cmd().(opDoneMsg); !ok || done.err != nil {
			t.Fatalf("save failed: %+v", done)
		}

		stored, _ := store.GetEntry("e1")
		if stored.Name != "Latte" || !stored.Timestamp.Equal(e.Timestamp) {
			t.Errorf("stored = %q at %v, want Latte at %v", stored.Name, stored.Timestamp, e.Timestamp)
		}
	})

	t.Run("invalid amount keeps the form open", func(t *testing.T) {
		updated, _ := m.openEntryForm(nil)
		mm := updated.(Model)
		*mm.entryForm = EntryFormModel{Name: "Broken", Amount: "0", Kind: models.KindSaved, Category: "Food"}

		updated, _ = mm.submitForm()
		mm = updated.(Model)
		if mm.state != constants.StateAddEntry {
			t.Errorf("state = %v, want add entry", mm.state)
		}
		if mm.formError == "" {
			t.Error("expected a form error")
		}
	})
}

func TestSubmitGoalEdit_WaitsForConfirm(t *testing.T) {
	m, store := setupTestModel(t)
	m = feed(t, m, snapshotMsg(t, m))

	g, _ := store.GetGoal("g1")
	updated, _ := m.openGoalForm(&g)
	m = updated.(Model)
	m.goalForm.Target = "2000"

	updated, _ = m.submitForm()
	m = updated.(Model)
	if m.state != constants.StateConfirmEditGoal {
		t.Fatalf("state = %v, want confirm edit goal", m.state)
	}
	if stored, _ := store.GetGoal("g1"); !stored.TargetAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("goal changed before confirmation: target %s", stored.TargetAmount)
	}

	m = feed(t, m, keyRune('y'))
	stored, _ := store.GetGoal("g1")
	if !stored.TargetAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("target = %s, want 2000", stored.TargetAmount)
	}
	if !stored.CreatedAt.Equal(g.CreatedAt) {
		t.Errorf("created at changed: %v -> %v", g.CreatedAt, stored.CreatedAt)
	}
	if !stored.CountsFrom.Equal(g.CountsFrom) {
		t.Errorf("untouched start date changed: %v -> %v", g.CountsFrom, stored.CountsFrom)
	}
}

func TestSubmitSettings(t *testing.T) {
	m, store := setupTestModel(t)

	updated, _ := m.openSettingsForm()
	m = updated.(Model)
	m.settingsForm.Currency = "usd"
	m.settingsForm.Language = "ru"

	updated, cmd := m.submitForm()
	m = updated.(Model)
	if m.state != constants.StateSettings {
		t.Errorf("state = %v, want settings", m.state)
	}
	if done := cmd().(opDoneMsg); done.err != nil {
		t.Fatalf("save failed: %v", done.err)
	}
	s, _ := store.GetSettings()
	if s.Currency != "USD" || s.Language != "ru" {
		t.Errorf("settings = %+v", s)
	}
}

func TestFormEscapeReturnsToTab(t *testing.T) {
	m, _ := setupTestModel(t)
	updated, _ := m.openGoalForm(nil)
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.state != constants.StateGoals {
		t.Errorf("state = %v, want goals", m.state)
	}
	if m.form != nil {
		t.Error("form not cleared")
	}
}
