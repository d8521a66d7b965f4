package backups

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/thrift/internal/backup"
	"github.com/julianstephens/thrift/internal/cli"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"File to write the backup to. Writes to stdout when omitted."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	ds, err := backup.Collect(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if c.Output == "" {
		return backup.Encode(os.Stdout, ds)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := backup.Encode(w, ds); err != nil {
		f.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Exported %d entries, %d goals, %d categories to %s\n",
		len(ds.Entries), len(ds.Goals), len(ds.Categories), c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Backup file to import. Use - for stdin."`
	DryRun bool   `help:"Parse the file and report what would be imported without writing."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	var r io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open backup file: %w", err)
		}
		defer f.Close()
		r = f
	}

	ds, report, err := backup.Decode(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	for _, s := range report.Skipped {
		fmt.Printf("  skipped line %d: %s\n", s.Line, s.Reason)
	}

	if c.DryRun {
		fmt.Printf("Would import %d entries, %d goals, %d categories (%d lines skipped)\n",
			len(ds.Entries), len(ds.Goals), len(ds.Categories), len(report.Skipped))
		return nil
	}

	res, err := backup.Import(ctx.Store, ds)
	if err != nil {
		return fmt.Errorf("import stopped after %d entries, %d goals, %d categories: %w",
			res.Entries, res.Goals, res.Categories, err)
	}

	fmt.Printf("✓ Imported %d entries, %d goals, %d new categories (%d lines skipped)\n",
		res.Entries, res.Goals, res.Categories, len(report.Skipped))
	return nil
}
