package entries

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
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return cli.NewContext(store)
}

func onlyEntry(t *testing.T, ctx *cli.Context) models.Entry {
	t.Helper()
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		t.Fatalf("GetAllEntries() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	return entries[0]
}

func TestEntryAddCmd(t *testing.T) {
	tests := []struct {
		name   string
		cmd    EntryAddCmd
		amount string
	}{
		{"saved", EntryAddCmd{Name: "Cooked at home", Amount: "250", Category: "Food", Date: "2024-03-01"}, "250"},
		{"wasted", EntryAddCmd{Name: "Taxi", Amount: "12,50", Wasted: true, Category: "Transport", Date: "2024-03-01T18:30"}, "-12.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("entry add failed: %v", err)
			}

			e := onlyEntry(t, ctx)
			if !e.Amount.Equal(decimal.RequireFromString(tt.amount)) {
				t.Errorf("amount = %s, want %s", e.Amount, tt.amount)
			}
			if _, err := ctx.Store.GetCategoryByName(tt.cmd.Category); err != nil {
				t.Errorf("category %q was not registered: %v", tt.cmd.Category, err)
			}
		})
	}
}

func TestEntryAddCmd_RegistersCategoryOnce(t *testing.T) {
	ctx := setupTestDB(t)
	for i := 0; i < 2; i++ {
		cmd := EntryAddCmd{Name: "Lunch", Amount: "10", Category: "Food"}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("entry add failed: %v", err)
		}
	}
	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 1 {
		t.Errorf("expected 1 category, got %d", len(categories))
	}
}

func TestEntryAddCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  EntryAddCmd
		want error
	}{
		{"zero amount", EntryAddCmd{Name: "Nothing", Amount: "0", Category: "Food"}, models.ErrInvalidAmount},
		{"blank name", EntryAddCmd{Name: "  ", Amount: "5", Category: "Food"}, models.ErrEmptyName},
		{"blank category", EntryAddCmd{Name: "Lunch", Amount: "5", Category: " "}, models.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
			entries, _ := ctx.Store.GetAllEntries()
			if len(entries) != 0 {
				t.Error("invalid entry was stored")
			}
		})
	}

	ctx := setupTestDB(t)
	bad := EntryAddCmd{Name: "Lunch", Amount: "5", Category: "Food", Date: "yesterday"}
	if err := bad.Run(ctx); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestEntryEditCmd(t *testing.T) {
	ctx := setupTestDB(t)
	add := EntryAddCmd{Name: "Lunch", Amount: "10", Category: "Food", Date: "2024-03-01T12:00"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	original := onlyEntry(t, ctx)

	edit := EntryEditCmd{ID: original.ID, Kind: "wasted", Category: "Treats"}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("entry edit failed: %v", err)
	}

	updated := onlyEntry(t, ctx)
	if updated.Name != "Lunch" {
		t.Errorf("name changed to %q", updated.Name)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("amount = %s, want -10", updated.Amount)
	}
	if updated.Category != "Treats" {
		t.Errorf("category = %q, want Treats", updated.Category)
	}
	if !updated.Timestamp.Equal(original.Timestamp) {
		t.Errorf("timestamp changed from %v to %v", original.Timestamp, updated.Timestamp)
	}
	if _, err := ctx.Store.GetCategoryByName("Treats"); err != nil {
		t.Errorf("new category not registered: %v", err)
	}

	missing := EntryEditCmd{ID: "missing", Name: "x"}
	if err := missing.Run(ctx); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("edit of missing entry error = %v, want ErrNotFound", err)
	}
}

func TestEntryDeleteCmd(t *testing.T) {
	ctx := setupTestDB(t)
	add := EntryAddCmd{Name: "Lunch", Amount: "10", Category: "Food"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	e := onlyEntry(t, ctx)

	ctx.In = strings.NewReader("n\n")
	if err := (&EntryDeleteCmd{ID: e.ID}).Run(ctx); err != nil {
		t.Fatalf("entry delete failed: %v", err)
	}
	onlyEntry(t, ctx)

	ctx.In = strings.NewReader("yes\n")
	if err := (&EntryDeleteCmd{ID: e.ID}).Run(ctx); err != nil {
		t.Fatalf("entry delete failed: %v", err)
	}
	entries, _ := ctx.Store.GetAllEntries()
	if len(entries) != 0 {
		t.Errorf("expected entry to be deleted, %d remain", len(entries))
	}

	if err := (&EntryDeleteCmd{ID: e.ID, Yes: true}).Run(ctx); err == nil {
		t.Error("expected error deleting a missing entry")
	}
}

func TestEntryListCmd_Filter(t *testing.T) {
	today := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	entries := []models.Entry{
		{ID: "1", Name: "a", Amount: decimal.NewFromInt(1), Category: "Food", Timestamp: today},
		{ID: "2", Name: "b", Amount: decimal.NewFromInt(2), Category: "Fun", Timestamp: today.AddDate(0, 0, -1)},
		{ID: "3", Name: "c", Amount: decimal.NewFromInt(3), Category: "Food", Timestamp: today.AddDate(0, -1, 0)},
		{ID: "4", Name: "d", Amount: decimal.NewFromInt(4), Category: "Food", Timestamp: today.AddDate(-1, 0, 0)},
	}

	tests := []struct {
		name string
		cmd  EntryListCmd
		want []string
	}{
		{"all", EntryListCmd{Period: "all"}, []string{"1", "2", "3", "4"}},
		{"today", EntryListCmd{Period: "today"}, []string{"1"}},
		{"month", EntryListCmd{Period: "month"}, []string{"1", "2"}},
		{"year", EntryListCmd{Period: "year"}, []string{"1", "2", "3"}},
		{"category", EntryListCmd{Period: "all", Category: "Food"}, []string{"1", "3", "4"}},
		{"limit", EntryListCmd{Period: "all", Limit: 2}, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmd.filter(entries, today)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("filter() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestEntryListCmd_Run(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&EntryListCmd{Period: "all"}).Run(ctx); err != nil {
		t.Errorf("entry list on empty store failed: %v", err)
	}
	add := EntryAddCmd{Name: "Lunch", Amount: "10", Category: "Food"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&EntryListCmd{Period: "all", ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("entry list failed: %v", err)
	}
}
