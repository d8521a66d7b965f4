package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrDirty is returned when a previous migration failed halfway.
var ErrDirty = errors.New("database schema is dirty")

// Runner manages database schema migrations. It owns a dedicated connection
// that is closed with the runner, so it never interferes with a store's pool.
type Runner struct {
	m      *migrate.Migrate
	fs     fs.FS
	dbName string
}

// NewSQLite creates a runner for the sqlite database at path.
// migrationFS holds the NNN_name.up.sql/.down.sql files at its root.
func NewSQLite(path string, migrationFS fs.FS) (*Runner, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}
	return newRunner(driver, "sqlite", migrationFS)
}

// NewPostgres creates a runner that migrates schema inside the database
// reached by connStr. The schema must already exist.
func NewPostgres(connStr, schema string, migrationFS fs.FS) (*Runner, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{SchemaName: schema})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	return newRunner(driver, "postgres", migrationFS)
}

func newRunner(driver database.Driver, name string, migrationFS fs.FS) (*Runner, error) {
	src, err := iofs.New(migrationFS, ".")
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Runner{m: m, fs: migrationFS, dbName: name}, nil
}

// Close releases the runner's connection.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (uint, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirty, version)
	}
	return version, nil
}

// LatestVersion returns the highest migration version in the runner's files.
func (r *Runner) LatestVersion() (uint, error) {
	versions, err := Versions(r.fs)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, nil
	}
	return versions[len(versions)-1], nil
}

// Versions lists the migration versions found in migrationFS in ascending order.
func Versions(migrationFS fs.FS) ([]uint, error) {
	src, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	defer src.Close()

	return walk(src)
}

func walk(src source.Driver) ([]uint, error) {
	var versions []uint
	v, err := src.First()
	for err == nil {
		versions = append(versions, v)
		v, err = src.Next(v)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	return versions, nil
}

// ApplyMigrations applies all pending migrations up to the latest version.
// Returns the number of migrations applied.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}

	versions, err := Versions(r.fs)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		logFn("No migration files found")
		return 0, nil
	}

	latest := versions[len(versions)-1]
	if current > latest {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", current, latest)
	}

	pending := 0
	for _, v := range versions {
		if v > current {
			pending++
		}
	}
	if pending == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Applying %d %s migration(s): %d -> %d", pending, r.dbName, current, latest))
	start := time.Now()

	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	logFn(fmt.Sprintf("Applied %d migration(s) in %v", pending, time.Since(start)))
	return pending, nil
}

// ValidateVersion checks that the database schema is neither dirty nor newer
// than the migrations shipped with this build.
func (r *Runner) ValidateVersion() error {
	current, err := r.CurrentVersion()
	if err != nil {
		return err
	}

	latest, err := r.LatestVersion()
	if err != nil {
		return err
	}

	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", current, latest)
	}
	return nil
}
