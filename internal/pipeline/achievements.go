package pipeline

import (
	"github.com/julianstephens/thrift/internal/currency"
	"github.com/julianstephens/thrift/internal/models"
)

// EvaluateAchievements measures every definition against the totals,
// converted to the reference currency with the static rate for currencyCode,
// and the streak. The conversion is approximate.
func EvaluateAchievements(defs []models.AchievementDefinition, totals Totals, streak int, currencyCode string) []models.AchievementProgress {
	saved := currency.ToReference(totals.Saved, currencyCode).InexactFloat64()
	wasted := currency.ToReference(totals.Wasted, currencyCode).InexactFloat64()

	progress := make([]models.AchievementProgress, 0, len(defs))
	for _, def := range defs {
		var current float64
		switch def.Kind {
		case models.AchievementSaved:
			current = saved
		case models.AchievementWasted:
			current = wasted
		case models.AchievementStreak:
			current = float64(streak)
		}
		progress = append(progress, models.AchievementProgress{
			Definition: def,
			Current:    current,
			Achieved:   current >= def.Target,
		})
	}
	return progress
}

// CountAchieved returns how many of progress are achieved.
func CountAchieved(progress []models.AchievementProgress) int {
	n := 0
	for _, p := range progress {
		if p.Achieved {
			n++
		}
	}
	return n
}
