package backups

import (
	"os"
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

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	if err := ctx.Store.AddCategory(models.Category{ID: "c1", Name: "Food"}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.AddEntry(models.Entry{ID: "e1", Name: "Lunch", Amount: decimal.NewFromInt(12), Category: "Food", Timestamp: ts}); err != nil {
		t.Fatal(err)
	}
	goal := models.Goal{ID: "g1", Name: "Bike", TargetAmount: decimal.NewFromInt(500), CreatedAt: ts, CountsFrom: ts}
	if err := ctx.Store.AddGoal(goal); err != nil {
		t.Fatal(err)
	}
}

func TestExportThenImport(t *testing.T) {
	src := setupTestDB(t)
	seed(t, src)

	file := filepath.Join(t.TempDir(), "thrift-backup.csv")
	if err := (&ExportCmd{Output: file}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#ENTRIES\n") {
		t.Errorf("unexpected backup contents:\n%s", data)
	}

	dst := setupTestDB(t)
	if err := (&ImportCmd{File: file, DryRun: true}).Run(dst); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if entries, _ := dst.Store.GetAllEntries(); len(entries) != 0 {
		t.Fatal("dry run wrote entries")
	}

	if err := (&ImportCmd{File: file}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	entries, _ := dst.Store.GetAllEntries()
	goals, _ := dst.Store.GetAllGoals()
	categories, _ := dst.Store.GetAllCategories()
	if len(entries) != 1 || len(goals) != 1 || len(categories) != 1 {
		t.Errorf("imported %d entries, %d goals, %d categories", len(entries), len(goals), len(categories))
	}
	if entries[0].ID == "e1" {
		t.Error("imported entry kept its original ID")
	}
}

func TestImport_MissingFile(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&ImportCmd{File: filepath.Join(t.TempDir(), "nope.csv")}).Run(ctx); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSnapshotCommands(t *testing.T) {
	ctx := setupTestDB(t)
	seed(t, ctx)

	if err := (&SnapshotListCmd{}).Run(ctx); err != nil {
		t.Errorf("snapshot list on empty dir failed: %v", err)
	}
	if err := (&SnapshotCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("snapshot create failed: %v", err)
	}
	if err := (&SnapshotListCmd{}).Run(ctx); err != nil {
		t.Errorf("snapshot list failed: %v", err)
	}

	mgr, err := snapshotManager(ctx)
	if err != nil {
		t.Fatal(err)
	}
	list, err := mgr.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}

	cmd := &SnapshotRestoreCmd{File: filepath.Base(list[0].Path)}
	path, err := cmd.resolve(mgr)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if path != list[0].Path {
		t.Errorf("resolve() = %s, want %s", path, list[0].Path)
	}

	ctx.In = strings.NewReader("n\n")
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("declined restore failed: %v", err)
	}

	if _, err := (&SnapshotRestoreCmd{File: "thrift-missing.db"}).resolve(mgr); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}
