package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. Entries dated on or after CountsFrom count
// toward it, with no upper bound.
type Goal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"` // empty means none
	TargetAmount decimal.Decimal `json:"target_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	CountsFrom   time.Time       `json:"counts_from"`
}

// Counts reports whether an entry at ts falls inside the goal's window.
func (g Goal) Counts(ts time.Time) bool {
	return !ts.Before(g.CountsFrom)
}
