package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/models"
)

// Totals are the running sums over a set of entries. Wasted is a magnitude.
type Totals struct {
	Saved  decimal.Decimal
	Wasted decimal.Decimal
	Net    decimal.Decimal
}

func (t *Totals) add(amount decimal.Decimal) {
	if amount.IsPositive() {
		t.Saved = t.Saved.Add(amount)
	} else {
		t.Wasted = t.Wasted.Add(amount.Abs())
	}
	t.Net = t.Net.Add(amount)
}

// ComputeTotals sums saved (positive) and wasted (negative) amounts.
func ComputeTotals(entries []models.Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.add(e.Amount)
	}
	return t
}

// Period is a fixed statistics window relative to today.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// AllPeriods lists the periods in display order.
var AllPeriods = []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear}

// Window is a range of calendar days, inclusive on both ends.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := dayOf(t).ordinal()
	return d >= dayOf(w.Start).ordinal() && d <= dayOf(w.End).ordinal()
}

// WindowFor returns the window for p. Weeks run Monday through Sunday
// regardless of locale.
func WindowFor(p Period, today time.Time) Window {
	y, m, d := today.Date()
	loc := today.Location()
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	switch p {
	case PeriodWeek:
		back := (int(today.Weekday()) + 6) % 7
		start := date(y, m, d-back)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}
	case PeriodMonth:
		return Window{Start: date(y, m, 1), End: date(y, m+1, 0)}
	case PeriodYear:
		return Window{Start: date(y, time.January, 1), End: date(y, time.December, 31)}
	default:
		return Window{Start: date(y, m, d), End: date(y, m, d)}
	}
}

// SumWindow totals the entries whose day falls inside w.
func SumWindow(entries []models.Entry, w Window) Totals {
	var t Totals
	for _, e := range entries {
		if w.Contains(e.Timestamp) {
			t.add(e.Amount)
		}
	}
	return t
}

// PeriodSums totals entries for every period in AllPeriods.
func PeriodSums(entries []models.Entry, today time.Time) map[Period]Totals {
	sums := make(map[Period]Totals, len(AllPeriods))
	for _, p := range AllPeriods {
		sums[p] = SumWindow(entries, WindowFor(p, today))
	}
	return sums
}
