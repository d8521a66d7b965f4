package models

import "fmt"

// AchievementKind selects which running figure an achievement is measured against.
type AchievementKind string

const (
	AchievementSaved  AchievementKind = "SAVED"
	AchievementWasted AchievementKind = "WASTED"
	AchievementStreak AchievementKind = "STREAK"
)

// AchievementDefinition is a compiled-in threshold. It is never persisted.
type AchievementDefinition struct {
	ID     string          `json:"id"`
	Target float64         `json:"target"`
	Kind   AchievementKind `json:"kind"`
}

// AchievementProgress is derived on every observation and never stored.
type AchievementProgress struct {
	Definition AchievementDefinition `json:"definition"`
	Current    float64               `json:"current"`
	Achieved   bool                  `json:"achieved"`
}

// Fraction is Current/Target clamped to [0,1]. A zero target counts as done.
func (p AchievementProgress) Fraction() float64 {
	if p.Definition.Target <= 0 {
		return 1
	}
	f := p.Current / p.Definition.Target
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

var (
	moneyThresholds  = []float64{100, 1_000, 5_000, 10_000, 50_000, 100_000, 1_000_000}
	streakThresholds = []float64{1, 3, 7, 14, 30, 100, 365}
)

// Achievements returns the static achievement list: seven SAVED, seven
// WASTED and seven STREAK thresholds, in that order.
func Achievements() []AchievementDefinition {
	defs := make([]AchievementDefinition, 0, len(moneyThresholds)*2+len(streakThresholds))
	for _, t := range moneyThresholds {
		defs = append(defs, AchievementDefinition{ID: fmt.Sprintf("saved_%.0f", t), Target: t, Kind: AchievementSaved})
	}
	for _, t := range moneyThresholds {
		defs = append(defs, AchievementDefinition{ID: fmt.Sprintf("wasted_%.0f", t), Target: t, Kind: AchievementWasted})
	}
	for _, t := range streakThresholds {
		defs = append(defs, AchievementDefinition{ID: fmt.Sprintf("streak_%.0f", t), Target: t, Kind: AchievementStreak})
	}
	return defs
}
