package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/backup"
	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/keyring"
	"github.com/julianstephens/thrift/internal/logger"
	"github.com/julianstephens/thrift/internal/storage"
	"github.com/julianstephens/thrift/internal/storage/postgres"
	"github.com/julianstephens/thrift/internal/storage/sqlite"
	"github.com/julianstephens/thrift/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Store     *storage.Notifying
	Validator *validation.Validator
	// In feeds confirmation prompts; nil means os.Stdin.
	In io.Reader
}

func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:     storage.NewNotifying(store, storage.NewBroker()),
		Validator: validation.New(),
	}
}

// IsSQLite reports whether the backing store is a local sqlite file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.Provider.(*sqlite.Store)
	return ok
}

// PerformAutomaticSnapshot snapshots a sqlite database and only logs failures
func (c *Context) PerformAutomaticSnapshot() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic snapshot failed", "error", err)
	}
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsPostgres reports whether config names a PostgreSQL database rather than a file.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// OpenStore picks the backend for config. A PostgreSQL string given on the
// command line must not carry a password; one taken from the environment or
// the keyring may, since neither ends up in shell history. A config left at
// its default falls back to a stored PostgreSQL string when one exists.
func OpenStore(config string, isDefault bool) (storage.Provider, error) {
	if IsPostgres(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store the full string with '%s keyring set' or in %s, or use a .pgpass file",
					err, constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	if isDefault {
		if connStr, src := keyring.ResolveConnectionString(); connStr != "" {
			logger.Debug("Using stored PostgreSQL connection", "source", src)
			return postgres.New(connStr), nil
		}
	}

	return sqlite.NewStore(ExpandHome(config)), nil
}

// ConfigDir is where logs live for a given config: next to a sqlite file,
// or under the user config directory for PostgreSQL.
func ConfigDir(config string) string {
	if !IsPostgres(config) {
		return filepath.Dir(ExpandHome(config))
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), constants.AppName)
	}
	return filepath.Join(dir, constants.AppName)
}

var (
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	wastedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// FormatAmount renders a signed amount with two decimals and the currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if amount.IsPositive() {
		s = "+" + s
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}

// StyleAmount colours an amount by sign.
func StyleAmount(amount decimal.Decimal, currency string) string {
	s := FormatAmount(amount, currency)
	switch {
	case amount.IsPositive():
		return savedStyle.Render(s)
	case amount.IsNegative():
		return wastedStyle.Render(s)
	}
	return s
}

// ProgressBar draws a fixed-width bar for a fraction in [0,1].
func ProgressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

var dateLayouts = []string{
	constants.DateTimeFormat,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	constants.DateFormat,
}

// ParseDate reads a local date or date-time flag. An empty value is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}
