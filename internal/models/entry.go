package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/constants"
)

// Entry is a single dated money event. A positive amount was saved, a
// negative amount was wasted. Amount is never zero.
type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"` // copy of a Category name, not a reference
	Timestamp time.Time       `json:"timestamp"`
}

// IsSaving reports whether the entry records money saved.
func (e Entry) IsSaving() bool {
	return e.Amount.IsPositive()
}

// Day returns the calendar day of the entry in its own location.
func (e Entry) Day() string {
	return e.Timestamp.Format(constants.DateFormat)
}

// EntryKind is the direction chosen in the add-entry flow.
type EntryKind string

const (
	KindSaved  EntryKind = "saved"
	KindWasted EntryKind = "wasted"
)

// Signed applies the kind's sign to a positive magnitude.
func (k EntryKind) Signed(magnitude decimal.Decimal) decimal.Decimal {
	if k == KindWasted {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}

// KindOf returns the kind matching the sign of amount.
func KindOf(amount decimal.Decimal) EntryKind {
	if amount.IsNegative() {
		return KindWasted
	}
	return KindSaved
}
