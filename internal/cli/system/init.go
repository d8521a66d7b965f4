package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/storage"
	"github.com/julianstephens/thrift/internal/storage/postgres"
	"github.com/julianstephens/thrift/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return errors.New("--force only applies to SQLite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(cli.ExpandHome(c.Source))
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first so the file is not held open while deleted
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized thrift storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}

	return nil
}

func openSource(source string) (storage.Provider, error) {
	if cli.IsPostgres(source) {
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(cli.ExpandHome(source)), nil
}

func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying categories...")
	categories, err := src.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to get categories from source: %w", err)
	}
	copied := 0
	for _, cat := range categories {
		err := ctx.Store.AddCategory(cat)
		if errors.Is(err, models.ErrDuplicateCategory) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to add category %q: %w", cat.Name, err)
		}
		copied++
	}
	fmt.Printf("    Copied %d categories\n", copied)

	fmt.Println("  Copying entries...")
	entries, err := src.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Store.AddEntry(e); err != nil {
			return fmt.Errorf("failed to add entry %s: %w", e.ID, err)
		}
	}
	fmt.Printf("    Copied %d entries\n", len(entries))

	fmt.Println("  Copying goals...")
	goals, err := src.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to get goals from source: %w", err)
	}
	for _, g := range goals {
		if err := ctx.Store.AddGoal(g); err != nil {
			return fmt.Errorf("failed to add goal %s: %w", g.ID, err)
		}
	}
	fmt.Printf("    Copied %d goals\n", len(goals))

	return nil
}
