package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/thrift/internal/backup"
	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/constants"
)

func snapshotManager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsSQLite() {
		return nil, fmt.Errorf("snapshots are only available for SQLite storage; use 'export' for PostgreSQL")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type SnapshotCreateCmd struct{}

func (c *SnapshotCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshotManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	fmt.Printf("✓ Snapshot created: %s\n", filepath.Base(path))
	return nil
}

type SnapshotListCmd struct{}

func (c *SnapshotListCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshotManager(ctx)
	if err != nil {
		return err
	}
	snapshots, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots found.")
		fmt.Printf("Snapshots are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available snapshots (%d total, keeping most recent %d):\n\n", len(snapshots), constants.MaxSnapshots)
	for _, s := range snapshots {
		sizeKB := float64(s.Size) / 1024.0
		fmt.Printf("  %s  %s  (%.1f KB)\n", s.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(s.Path), sizeKB)
	}
	fmt.Printf("\nSnapshot directory: %s\n", mgr.Dir())
	return nil
}

type SnapshotRestoreCmd struct {
	File string `arg:"" help:"Path or filename of the snapshot to restore."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

// resolve finds the snapshot as given, relative to the working directory,
// or by name inside the snapshot directory.
func (c *SnapshotRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if filepath.IsAbs(c.File) {
		if _, err := os.Stat(c.File); err != nil {
			return "", fmt.Errorf("snapshot file not found: %s", c.File)
		}
		return c.File, nil
	}
	if _, err := os.Stat(c.File); err == nil {
		return filepath.Abs(c.File)
	}
	candidate := filepath.Join(mgr.Dir(), c.File)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("snapshot file not found: tried current directory and %s", mgr.Dir())
}

func (c *SnapshotRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshotManager(ctx)
	if err != nil {
		return err
	}
	path, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This will replace your current database with the snapshot.")
		fmt.Println("A snapshot of your current database will be taken before restoring.")
		fmt.Printf("\nRestore from: %s\n", path)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	// Release the database file before it is replaced
	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if previous != "" {
		fmt.Printf("  The replaced database was saved as %s\n", filepath.Base(previous))
	}
	return nil
}
