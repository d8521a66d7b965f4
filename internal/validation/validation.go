package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/constants"
	"github.com/julianstephens/thrift/internal/models"
)

// ConflictType represents the type of data integrity problem
type ConflictType string

const (
	ConflictZeroAmount        ConflictType = "zero_amount"
	ConflictBlankEntryField   ConflictType = "blank_entry_field"
	ConflictDuplicateCategory ConflictType = "duplicate_category"
	ConflictNonPositiveTarget ConflictType = "non_positive_target"
	ConflictCountsFromFuture  ConflictType = "counts_from_in_future"
)

// Conflict represents a detected problem with stored data
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// EntryInput is the raw add/edit entry form.
type EntryInput struct {
	ID        string           // empty for a new entry
	Name      string           `validate:"required"`
	Amount    string           `validate:"required"`
	Kind      models.EntryKind `validate:"oneof=saved wasted"`
	Category  string           `validate:"required"`
	Timestamp time.Time
}

// GoalInput is the raw add/edit goal form.
type GoalInput struct {
	ID          string // empty for a new goal
	Name        string `validate:"required"`
	Description string
	Target      string `validate:"required"`
	CreatedAt   time.Time
	CountsFrom  time.Time
}

type settingsInput struct {
	Currency string `validate:"required,iso4217"`
	Language string `validate:"required"`
}

// Validator checks user input before it reaches a store
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a new Validator
func New() *Validator {
	return &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		now: time.Now,
	}
}

// fieldErrors maps a failing struct field to the sentinel callers match on.
var fieldErrors = map[string]error{
	"Name":     models.ErrEmptyName,
	"Amount":   models.ErrInvalidAmount,
	"Kind":     models.ErrInvalidKind,
	"Category": models.ErrEmptyCategory,
	"Target":   models.ErrInvalidTarget,
	"Currency": models.ErrInvalidCurrency,
	"Language": models.ErrInvalidLanguage,
}

func (v *Validator) check(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if sentinel, ok := fieldErrors[verrs[0].Field()]; ok {
			return sentinel
		}
	}
	return err
}

// ParseAmount parses a strictly positive decimal, accepting "," as the
// decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, models.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}
	return d, nil
}

// Entry validates in and builds the entry to store. Nothing is written on
// failure.
func (v *Validator) Entry(in EntryInput) (models.Entry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Amount = strings.TrimSpace(in.Amount)
	if err := v.check(in); err != nil {
		return models.Entry{}, err
	}

	magnitude, err := ParseAmount(in.Amount)
	if err != nil {
		return models.Entry{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = v.now()
	}

	return models.Entry{
		ID:        id,
		Name:      in.Name,
		Amount:    in.Kind.Signed(magnitude),
		Category:  in.Category,
		Timestamp: ts,
	}, nil
}

// Goal validates in and builds the goal to store.
func (v *Validator) Goal(in GoalInput) (models.Goal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Target = strings.TrimSpace(in.Target)
	if err := v.check(in); err != nil {
		return models.Goal{}, err
	}

	target, err := ParseAmount(in.Target)
	if err != nil {
		return models.Goal{}, models.ErrInvalidTarget
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = v.now()
	}
	from := in.CountsFrom
	if from.IsZero() {
		from = created
	}

	return models.Goal{
		ID:           id,
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		TargetAmount: target,
		CreatedAt:    created,
		CountsFrom:   from,
	}, nil
}

// Category validates a category label and builds a new registry row.
func (v *Validator) Category(name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, models.ErrEmptyCategory
	}
	return models.Category{ID: uuid.New().String(), Name: name}, nil
}

// Settings validates a settings update.
func (v *Validator) Settings(s models.Settings) error {
	in := settingsInput{
		Currency: strings.ToUpper(strings.TrimSpace(s.Currency)),
		Language: strings.TrimSpace(s.Language),
	}
	if err := v.check(in); err != nil {
		return err
	}
	for _, lang := range constants.SupportedLanguages {
		if lang == in.Language {
			return nil
		}
	}
	return models.ErrInvalidLanguage
}

// Check inspects stored data for rows the input path would have rejected,
// such as rows imported from a hand-edited backup.
func (v *Validator) Check(entries []models.Entry, goals []models.Goal, categories []models.Category) ValidationResult {
	var result ValidationResult

	for _, e := range entries {
		if e.Amount.IsZero() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictZeroAmount,
				Description: fmt.Sprintf("Entry %q on %s has a zero amount", e.Name, e.Day()),
				IDs:         []string{e.ID},
			})
		}
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Category) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBlankEntryField,
				Description: fmt.Sprintf("Entry %s on %s has a blank name or category", e.ID, e.Day()),
				IDs:         []string{e.ID},
			})
		}
	}

	seen := make(map[string]string)
	for _, c := range categories {
		if first, ok := seen[c.Name]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateCategory,
				Description: fmt.Sprintf("Category %q is registered more than once", c.Name),
				IDs:         []string{first, c.ID},
			})
			continue
		}
		seen[c.Name] = c.ID
	}

	now := v.now()
	for _, g := range goals {
		if !g.TargetAmount.IsPositive() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNonPositiveTarget,
				Description: fmt.Sprintf("Goal %q has a target of %s", g.Name, g.TargetAmount),
				IDs:         []string{g.ID},
			})
		}
		if g.CountsFrom.After(now) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCountsFromFuture,
				Description: fmt.Sprintf("Goal %q only counts entries from %s", g.Name, g.CountsFrom.Format(constants.DateFormat)),
				IDs:         []string{g.ID},
			})
		}
	}

	return result
}
