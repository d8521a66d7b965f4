package backup

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/logger"
	"github.com/julianstephens/thrift/internal/models"
)

// Section markers and header lines of the text backup format.
const (
	MarkerEntries    = "#ENTRIES"
	MarkerGoals      = "#GOALS"
	MarkerCategories = "#CATEGORIES"

	HeaderEntries    = "itemName,cost,category,date"
	HeaderGoals      = "name,description,targetAmount,creationDate,savingsStartDate"
	HeaderCategories = "name"
)

// readLayouts are tried in order for every date field. Layouts without a zone
// are read in local time.
var readLayouts = []string{
	constants.BackupTimeFormat,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	constants.DateFormat,
}

// Dataset is the full contents of a backup.
type Dataset struct {
	Entries    []models.Entry
	Goals      []models.Goal
	Categories []models.Category
}

// SkippedLine is a data line Decode could not use.
type SkippedLine struct {
	Line   int
	Text   string
	Reason string
}

// DecodeReport lists the lines Decode dropped.
type DecodeReport struct {
	Skipped []SkippedLine
}

// Source is the read side of a store.
type Source interface {
	GetAllEntries() ([]models.Entry, error)
	GetAllGoals() ([]models.Goal, error)
	GetAllCategories() ([]models.Category, error)
}

// Collect reads everything a backup holds from src.
func Collect(src Source) (Dataset, error) {
	entries, err := src.GetAllEntries()
	if err != nil {
		return Dataset{}, fmt.Errorf("loading entries: %w", err)
	}
	goals, err := src.GetAllGoals()
	if err != nil {
		return Dataset{}, fmt.Errorf("loading goals: %w", err)
	}
	categories, err := src.GetAllCategories()
	if err != nil {
		return Dataset{}, fmt.Errorf("loading categories: %w", err)
	}
	return Dataset{Entries: entries, Goals: goals, Categories: categories}, nil
}

// quote wraps s in double quotes, doubling any quote inside. Line breaks
// become spaces since every record must fit on one line.
func quote(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatTime(t time.Time) string {
	return t.In(time.Local).Format(constants.BackupTimeFormat)
}

// Encode writes ds in the text backup format. The output depends only on the
// data: entries are ordered by timestamp then name, goals by creation date
// then name, categories by name.
func Encode(w io.Writer, ds Dataset) error {
	entries := append([]models.Entry(nil), ds.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Name < entries[j].Name
	})

	goals := append([]models.Goal(nil), ds.Goals...)
	sort.SliceStable(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].Name < goals[j].Name
	})

	categories := append([]models.Category(nil), ds.Categories...)
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	bw := bufio.NewWriter(w)
	line := func(parts ...string) {
		bw.WriteString(strings.Join(parts, ","))
		bw.WriteByte('\n')
	}

	line(MarkerEntries)
	line(HeaderEntries)
	for _, e := range entries {
		line(quote(e.Name), e.Amount.String(), quote(e.Category), formatTime(e.Timestamp))
	}

	line(MarkerGoals)
	line(HeaderGoals)
	for _, g := range goals {
		line(quote(g.Name), quote(g.Description), g.TargetAmount.String(), formatTime(g.CreatedAt), formatTime(g.CountsFrom))
	}

	line(MarkerCategories)
	line(HeaderCategories)
	for _, c := range categories {
		line(quote(c.Name))
	}

	return bw.Flush()
}

type section int

const (
	sectionNone section = iota
	sectionEntries
	sectionGoals
	sectionCategories
)

// splitFields splits one line on commas outside double quotes and undoes
// quote doubling.
func splitFields(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.Read()
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range readLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseDecimal(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", value)
	}
	return d, nil
}

func decodeEntry(fields []string) (models.Entry, error) {
	if len(fields) != 4 {
		return models.Entry{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return models.Entry{}, models.ErrEmptyName
	}
	amount, err := parseDecimal(fields[1])
	if err != nil {
		return models.Entry{}, err
	}
	if amount.IsZero() {
		return models.Entry{}, models.ErrInvalidAmount
	}
	category := strings.TrimSpace(fields[2])
	if category == "" {
		return models.Entry{}, models.ErrEmptyCategory
	}
	ts, err := parseTime(fields[3])
	if err != nil {
		return models.Entry{}, err
	}
	return models.Entry{
		ID:        uuid.New().String(),
		Name:      name,
		Amount:    amount,
		Category:  category,
		Timestamp: ts,
	}, nil
}

func decodeGoal(fields []string) (models.Goal, error) {
	if len(fields) != 5 {
		return models.Goal{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return models.Goal{}, models.ErrEmptyName
	}
	target, err := parseDecimal(fields[2])
	if err != nil {
		return models.Goal{}, err
	}
	if !target.IsPositive() {
		return models.Goal{}, models.ErrInvalidTarget
	}
	created, err := parseTime(fields[3])
	if err != nil {
		return models.Goal{}, err
	}
	from, err := parseTime(fields[4])
	if err != nil {
		return models.Goal{}, err
	}
	return models.Goal{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  fields[1],
		TargetAmount: target,
		CreatedAt:    created,
		CountsFrom:   from,
	}, nil
}

func decodeCategory(fields []string) (models.Category, error) {
	if len(fields) != 1 {
		return models.Category{}, fmt.Errorf("expected 1 field, got %d", len(fields))
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return models.Category{}, models.ErrEmptyCategory
	}
	return models.Category{ID: uuid.New().String(), Name: name}, nil
}

// Decode reads a backup produced by Encode or written by hand. A line that
// cannot be parsed is recorded in the report and skipped; only a read error
// from r fails the whole decode. Lines under an unknown # marker, or before
// any marker, are ignored.
func Decode(r io.Reader) (Dataset, DecodeReport, error) {
	var (
		ds     Dataset
		report DecodeReport
		cur    = sectionNone
	)

	skip := func(n int, text string, err error) {
		report.Skipped = append(report.Skipped, SkippedLine{Line: n, Text: text, Reason: err.Error()})
		logger.Warn("Skipping backup line", "line", n, "reason", err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimRight(sc.Text(), "\r")
		text := strings.TrimSpace(raw)
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "#") {
			switch strings.ToUpper(text) {
			case MarkerEntries:
				cur = sectionEntries
			case MarkerGoals:
				cur = sectionGoals
			case MarkerCategories:
				cur = sectionCategories
			default:
				cur = sectionNone
			}
			continue
		}

		if cur == sectionNone || isHeader(text) {
			continue
		}

		fields, err := splitFields(text)
		if err != nil {
			skip(n, raw, err)
			continue
		}

		switch cur {
		case sectionEntries:
			e, err := decodeEntry(fields)
			if err != nil {
				skip(n, raw, err)
				continue
			}
			ds.Entries = append(ds.Entries, e)
		case sectionGoals:
			g, err := decodeGoal(fields)
			if err != nil {
				skip(n, raw, err)
				continue
			}
			ds.Goals = append(ds.Goals, g)
		case sectionCategories:
			c, err := decodeCategory(fields)
			if err != nil {
				skip(n, raw, err)
				continue
			}
			ds.Categories = append(ds.Categories, c)
		}
	}
	if err := sc.Err(); err != nil {
		return ds, report, fmt.Errorf("reading backup: %w", err)
	}
	return ds, report, nil
}

// isHeader reports whether text is a column header line. Any section's
// header is accepted anywhere; data lines always start with a quote.
func isHeader(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "itemname") || strings.HasPrefix(lower, "name")
}

// Store is the write side Import appends to.
type Store interface {
	AddEntry(models.Entry) error
	AddGoal(models.Goal) error
	AddCategory(models.Category) error
	GetAllCategories() ([]models.Category, error)
}

// ImportResult counts the rows Import wrote.
type ImportResult struct {
	Entries    int
	Goals      int
	Categories int
}

// Import appends ds to store. Entries and goals always get fresh IDs and are
// added even when an identical row exists. Categories named in the backup or
// used by its entries are registered unless already present.
func Import(store Store, ds Dataset) (ImportResult, error) {
	var res ImportResult

	existing, err := store.GetAllCategories()
	if err != nil {
		return res, fmt.Errorf("loading categories: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}

	names := make([]string, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		names = append(names, c.Name)
	}
	for _, e := range ds.Entries {
		names = append(names, e.Category)
	}
	for _, name := range names {
		if known[name] {
			continue
		}
		known[name] = true
		if err := store.AddCategory(models.Category{ID: uuid.New().String(), Name: name}); err != nil {
			return res, fmt.Errorf("importing category %q: %w", name, err)
		}
		res.Categories++
	}

	for _, e := range ds.Entries {
		e.ID = uuid.New().String()
		if err := store.AddEntry(e); err != nil {
			return res, fmt.Errorf("importing entry %q: %w", e.Name, err)
		}
		res.Entries++
	}

	for _, g := range ds.Goals {
		g.ID = uuid.New().String()
		if err := store.AddGoal(g); err != nil {
			return res, fmt.Errorf("importing goal %q: %w", g.Name, err)
		}
		res.Goals++
	}

	return res, nil
}
