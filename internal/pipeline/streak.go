// Package pipeline derives statistics, goal progress and achievements from
// the entry log. Everything here is recomputed from store contents; nothing
// is persisted.
package pipeline

import "time"

// day is a calendar date with the time of day dropped.
type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

// ordinal sorts days chronologically.
func (d day) ordinal() int {
	return d.year*10000 + int(d.month)*100 + d.day
}

// Streak counts consecutive calendar days, ending with today, that have at
// least one timestamp. A day without entries today yields 0. Each timestamp
// is reduced to its date in its own location.
func Streak(timestamps []time.Time, today time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}

	days := make(map[day]struct{}, len(timestamps))
	for _, ts := range timestamps {
		days[dayOf(ts)] = struct{}{}
	}

	y, m, d := today.Date()
	streak := 0
	for {
		cursor := time.Date(y, m, d-streak, 0, 0, 0, 0, today.Location())
		if _, ok := days[dayOf(cursor)]; !ok {
			return streak
		}
		streak++
	}
}
