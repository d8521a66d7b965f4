// Package backup moves thrift data in and out of the database: a portable
// text backup of entries, goals and categories, and whole-file snapshots of
// the sqlite database.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/logger"
)

const snapshotTimeLayout = "20060102-150405"

// ErrInUse is returned when a restore would overwrite a database another
// thrift process has open.
var ErrInUse = errors.New("database is in use by another thrift process")

// SnapshotInfo describes one snapshot file
type SnapshotInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	counter int
}

// Manager creates, rotates and restores snapshots of a sqlite database
type Manager struct {
	dbPath      string
	snapshotDir string
	now         func() time.Time
	processes   func() ([]ps.Process, error)
}

// NewManager creates a manager that keeps snapshots next to dbPath
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:      dbPath,
		snapshotDir: filepath.Join(filepath.Dir(dbPath), constants.SnapshotDirName),
		now:         time.Now,
		processes:   ps.Processes,
	}
}

// Dir returns the snapshot directory path
func (m *Manager) Dir() string {
	return m.snapshotDir
}

// Create snapshots the database and prunes snapshots beyond constants.MaxSnapshots
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}

	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old snapshots", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.snapshotDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if err := m.vacuumInto(path); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	logger.Info("Created snapshot", "path", path)
	return path, nil
}

// nextPath picks an unused file name for a snapshot taken now.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(snapshotTimeLayout)
	name := constants.SnapshotFilePrefix + stamp + constants.SnapshotFileSuffix
	path := filepath.Join(m.snapshotDir, name)

	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot filename")
		}
		name = fmt.Sprintf("%s%s-%d%s", constants.SnapshotFilePrefix, stamp, counter, constants.SnapshotFileSuffix)
		path = filepath.Join(m.snapshotDir, name)
	}
}

func (m *Manager) vacuumInto(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, copying database file", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// parseSnapshotName extracts the timestamp and uniqueness counter from a
// snapshot file name.
func parseSnapshotName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.SnapshotFilePrefix) || !strings.HasSuffix(name, constants.SnapshotFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.SnapshotFilePrefix), constants.SnapshotFileSuffix)

	counter := 0
	if i := strings.LastIndex(stamp, "-"); i > 0 && len(stamp)-i-1 != 6 {
		if n, err := strconv.Atoi(stamp[i+1:]); err == nil {
			counter = n
			stamp = stamp[:i]
		}
	}

	ts, err := time.ParseInLocation(snapshotTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, counter, true
}

// List returns all snapshots, newest first
func (m *Manager) List() ([]SnapshotInfo, error) {
	dirEntries, err := os.ReadDir(m.snapshotDir)
	if os.IsNotExist(err) {
		return []SnapshotInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	var snapshots []SnapshotInfo
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		ts, counter, ok := parseSnapshotName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, SnapshotInfo{
			Path:      filepath.Join(m.snapshotDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			counter:   counter,
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].counter > snapshots[j].counter
		}
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}

	for i := constants.MaxSnapshots; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
		logger.Debug("Removed old snapshot", "path", snapshots[i].Path)
	}
	return nil
}

// otherInstanceRunning reports whether a thrift process other than this one
// is alive.
func (m *Manager) otherInstanceRunning() (bool, error) {
	procs, err := m.processes()
	if err != nil {
		return false, fmt.Errorf("failed to list processes: %w", err)
	}
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == constants.AppName {
			return true, nil
		}
	}
	return false, nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first, outside rotation, so a restore can be undone.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("snapshot file does not exist: %s", path)
	}

	if err := Verify(path); err != nil {
		return "", fmt.Errorf("snapshot file is corrupted or invalid: %w", err)
	}

	busy, err := m.otherInstanceRunning()
	if err != nil {
		return "", err
	}
	if busy {
		return "", ErrInUse
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		previous, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to snapshot current database before restore: %w", err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy snapshot file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Restored snapshot", "path", path, "previous", previous)
	return previous, nil
}

// Verify checks that path is a sqlite database holding thrift data
func Verify(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'entries'").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s is not a %s database", filepath.Base(path), constants.AppName)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
