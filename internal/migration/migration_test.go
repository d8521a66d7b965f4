package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/julianstephens/thrift/migrations"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"001_init.up.sql":        {Data: []byte("CREATE TABLE test_users (id INTEGER PRIMARY KEY);")},
		"001_init.down.sql":      {Data: []byte("DROP TABLE test_users;")},
		"002_add_posts.up.sql":   {Data: []byte("CREATE TABLE test_posts (id INTEGER PRIMARY KEY, user_id INTEGER);")},
		"002_add_posts.down.sql": {Data: []byte("DROP TABLE test_posts;")},
	}
}

func newTestRunner(t *testing.T, path string, fsys fs.FS) *Runner {
	t.Helper()
	runner, err := NewSQLite(path, fsys)
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	t.Cleanup(func() { runner.Close() })
	return runner
}

func TestVersions(t *testing.T) {
	versions, err := Versions(testMigrations())
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}
	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Errorf("Versions() = %v, want [1 2]", versions)
	}
}

func TestApplyMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	runner := newTestRunner(t, path, testMigrations())

	current, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() error: %v", err)
	}
	if current != 0 {
		t.Errorf("fresh database version = %d, want 0", current)
	}

	var messages []string
	applied, err := runner.ApplyMigrations(func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(messages) == 0 {
		t.Error("expected progress messages")
	}

	current, err = runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() error: %v", err)
	}
	if current != 2 {
		t.Errorf("version after apply = %d, want 2", current)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion() error: %v", err)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		applied, err := runner.ApplyMigrations(nil)
		if err != nil {
			t.Fatalf("ApplyMigrations() error: %v", err)
		}
		if applied != 0 {
			t.Errorf("applied = %d, want 0", applied)
		}
	})

	t.Run("tables exist", func(t *testing.T) {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer db.Close()
		for _, table := range []string{"test_users", "test_posts"} {
			var count int
			if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&count); err != nil {
				t.Fatalf("query: %v", err)
			}
			if count != 1 {
				t.Errorf("table %s missing", table)
			}
		}
	})
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	full := newTestRunner(t, path, testMigrations())
	if _, err := full.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() error: %v", err)
	}

	older := fstest.MapFS{
		"001_init.up.sql":   {Data: []byte("CREATE TABLE test_users (id INTEGER PRIMARY KEY);")},
		"001_init.down.sql": {Data: []byte("DROP TABLE test_users;")},
	}
	runner := newTestRunner(t, path, older)
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected an error for a schema newer than the shipped migrations")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("expected ApplyMigrations to refuse a newer schema")
	}
}

func TestApplyMigrations_BrokenMigrationLeavesDirtySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	broken := fstest.MapFS{
		"001_init.up.sql":   {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"001_init.down.sql": {Data: []byte("DROP TABLE ok;")},
		"002_bad.up.sql":    {Data: []byte("THIS IS NOT SQL;")},
		"002_bad.down.sql":  {Data: []byte("")},
	}
	runner := newTestRunner(t, path, broken)
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("expected broken migration to fail")
	}

	if _, err := runner.CurrentVersion(); !errors.Is(err, ErrDirty) {
		t.Errorf("CurrentVersion() error = %v, want %v", err, ErrDirty)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres"} {
		t.Run(dir, func(t *testing.T) {
			sub, err := fs.Sub(migrations.FS, dir)
			if err != nil {
				t.Fatalf("fs.Sub() error: %v", err)
			}
			versions, err := Versions(sub)
			if err != nil {
				t.Fatalf("Versions() error: %v", err)
			}
			if len(versions) == 0 {
				t.Fatal("no embedded migrations")
			}
		})
	}

	sqliteFS, _ := fs.Sub(migrations.FS, "sqlite")
	postgresFS, _ := fs.Sub(migrations.FS, "postgres")
	a, _ := Versions(sqliteFS)
	b, _ := Versions(postgresFS)
	if len(a) != len(b) {
		t.Errorf("sqlite has %d migrations, postgres has %d", len(a), len(b))
	}
}
