package pipeline

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/models"
)

// CategoryTotal is the signed sum of one category label.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// ByCategory groups entries by exact label and orders the groups by
// descending absolute total, then label.
func ByCategory(entries []models.Entry) []CategoryTotal {
	index := make(map[string]int)
	var groups []CategoryTotal
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, CategoryTotal{Category: e.Category})
		}
		groups[i].Total = groups[i].Total.Add(e.Amount)
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Abs().Cmp(groups[j].Total.Abs()); c != 0 {
			return c > 0
		}
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// PieSlice is one category's share of the chart. Angles are degrees measured
// clockwise from 12 o'clock.
type PieSlice struct {
	Category string
	Total    decimal.Decimal
	Start    float64
	Sweep    float64
}

// End is the angle where the slice stops.
func (s PieSlice) End() float64 {
	return s.Start + s.Sweep
}

// PieSlices sizes each group in proportion to its absolute total.
// Groups that net to zero get an empty slice.
func PieSlices(groups []CategoryTotal) []PieSlice {
	var sum float64
	for _, g := range groups {
		sum += g.Total.Abs().InexactFloat64()
	}

	slices := make([]PieSlice, 0, len(groups))
	start := 0.0
	for _, g := range groups {
		sweep := 0.0
		if sum > 0 {
			sweep = g.Total.Abs().InexactFloat64() / sum * 360
		}
		slices = append(slices, PieSlice{Category: g.Category, Total: g.Total, Start: start, Sweep: sweep})
		start += sweep
	}
	return slices
}

// SliceAt returns the slice covering angle, in degrees clockwise from 12 o'clock.
func SliceAt(slices []PieSlice, angle float64) (PieSlice, bool) {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	for _, s := range slices {
		if s.Sweep <= 0 {
			continue
		}
		if angle >= s.Start && angle < s.End() {
			return s, true
		}
	}
	// Rounding can leave the last slice a hair short of 360.
	for i := len(slices) - 1; i >= 0; i-- {
		if slices[i].Sweep > 0 {
			if angle >= slices[i].Start {
				return slices[i], true
			}
			break
		}
	}
	return PieSlice{}, false
}

// SliceAtPoint hit-tests a tap at (x, y) on a chart centred at (cx, cy) in
// screen coordinates, where y grows downwards. Taps outside radius miss.
func SliceAtPoint(slices []PieSlice, x, y, cx, cy, radius float64) (PieSlice, bool) {
	dx, dy := x-cx, y-cy
	if dx*dx+dy*dy > radius*radius {
		return PieSlice{}, false
	}
	angle := math.Atan2(dx, -dy) * 180 / math.Pi
	return SliceAt(slices, angle)
}
