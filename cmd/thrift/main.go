package main

import (
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/cli/backups"
	"github.com/julianstephens/thrift/internal/cli/categories"
	"github.com/julianstephens/thrift/internal/cli/entries"
	"github.com/julianstephens/thrift/internal/cli/goals"
	"github.com/julianstephens/thrift/internal/cli/settings"
	"github.com/julianstephens/thrift/internal/cli/stats"
	"github.com/julianstephens/thrift/internal/cli/system"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/errors"
	"github.com/julianstephens/thrift/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the OS keyring, THRIFT_DB_CONNECTION, or .pgpass instead." type:"string" default:"${default_config}" env:"THRIFT_CONFIG"`
	Debug   bool   `help:"Enable debug logging." env:"THRIFT_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize thrift storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Entry struct {
		Add    entries.EntryAddCmd    `cmd:"" help:"Record a saving or a waste."`
		Edit   entries.EntryEditCmd   `cmd:"" help:"Edit an existing entry."`
		Delete entries.EntryDeleteCmd `cmd:"" help:"Delete an entry."`
		List   entries.EntryListCmd   `cmd:"" help:"List entries." default:"1"`
	} `cmd:"" help:"Manage entries."`
	Goal struct {
		Add    goals.GoalAddCmd    `cmd:"" help:"Add a savings goal."`
		Edit   goals.GoalEditCmd   `cmd:"" help:"Edit a goal."`
		Delete goals.GoalDeleteCmd `cmd:"" help:"Delete a goal."`
		List   goals.GoalListCmd   `cmd:"" help:"List goals with progress." default:"1"`
	} `cmd:"" help:"Manage savings goals."`
	Category struct {
		Add    categories.CategoryAddCmd    `cmd:"" help:"Add a category."`
		Delete categories.CategoryDeleteCmd `cmd:"" help:"Delete a category."`
		List   categories.CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	} `cmd:"" help:"Manage categories."`

	Stats        stats.StatsCmd        `cmd:"" help:"Show totals by period and category."`
	Achievements stats.AchievementsCmd `cmd:"" help:"Show achievement progress."`
	Export       backups.ExportCmd     `cmd:"" help:"Export all data as CSV."`
	Import       backups.ImportCmd     `cmd:"" help:"Import data from a CSV export."`

	Snapshot struct {
		Create  backups.SnapshotCreateCmd  `cmd:"" help:"Create a database snapshot." default:"1"`
		List    backups.SnapshotListCmd    `cmd:"" help:"List available snapshots."`
		Restore backups.SnapshotRestoreCmd `cmd:"" help:"Restore the database from a snapshot."`
	} `cmd:"" help:"Manage database snapshots."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// needsLoad reports whether the selected command expects an initialized store.
func needsLoad(command string) bool {
	switch {
	case strings.HasPrefix(command, "init"),
		strings.HasPrefix(command, "keyring"),
		strings.HasPrefix(command, "doctor"),
		strings.HasPrefix(command, "tui"):
		return false
	}
	return true
}

func main() {
	// A missing .env file is normal
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal finance tracker for savings and wasted money"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(CLI.Config)}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(CLI.Config, CLI.Config == constants.DefaultConfigPath)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx := cli.NewContext(store)
	defer appCtx.Store.Close()

	// Commands that manage the store lifecycle load it themselves
	if needsLoad(ctx.Command()) {
		if err := appCtx.Store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Store.Close()
		errors.Fatal(err)
	}
}
