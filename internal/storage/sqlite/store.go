package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/logger"
	"github.com/julianstephens/thrift/internal/migration"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/migrations"
)

// timeLayout sorts lexically in the same order as the instants it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := s.Migrate(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	// Fill in settings missing from a fresh or partially written database
	settings, err := s.GetSettings()
	if err != nil {
		settings = models.Settings{}
	}
	if settings.Currency == "" || settings.Language == "" {
		models.ApplyDefaultSettings(&settings)
		if err := s.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	if err := s.validateSchemaVersion(); err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serializes writes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewSQLite(s.path, subFS)
}

// Migrate applies pending migrations. Progress goes to logFn and the log.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	defer runner.Close()

	return runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
		if logFn != nil {
			logFn(msg)
		}
	})
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.ValidateVersion()
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (uint, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	defer runner.Close()

	return runner.CurrentVersion()
}

// LatestSchemaVersion returns the newest migration this build ships.
func (s *Store) LatestSchemaVersion() (uint, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	defer runner.Close()

	return runner.LatestVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", value, err)
	}
	return t.Local(), nil
}
