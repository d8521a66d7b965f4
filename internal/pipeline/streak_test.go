package pipeline

import (
	"testing"
	"time"
)

func TestStreak(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local)
	daysAgo := func(n int, hour int) time.Time {
		return time.Date(2024, 3, 15-n, hour, 0, 0, 0, time.Local)
	}

	tests := []struct {
		name       string
		timestamps []time.Time
		want       int
	}{
		{"no entries", nil, 0},
		{"today only", []time.Time{daysAgo(0, 9)}, 1},
		{"three consecutive days", []time.Time{daysAgo(0, 9), daysAgo(1, 9), daysAgo(2, 9)}, 3},
		{"nothing today", []time.Time{daysAgo(1, 9), daysAgo(2, 9)}, 0},
		{"gap yesterday", []time.Time{daysAgo(0, 9), daysAgo(2, 9)}, 1},
		{"several entries on one day count once", []time.Time{daysAgo(0, 1), daysAgo(0, 23), daysAgo(1, 12)}, 2},
		{"unordered input", []time.Time{daysAgo(2, 9), daysAgo(0, 9), daysAgo(1, 9), daysAgo(5, 9)}, 3},
		{"future entries ignored", []time.Time{daysAgo(-1, 9)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.timestamps, today); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreak_CrossesMonthAndYear(t *testing.T) {
	today := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	timestamps := []time.Time{
		time.Date(2024, 1, 1, 7, 0, 0, 0, time.Local),
		time.Date(2023, 12, 31, 22, 0, 0, 0, time.Local),
		time.Date(2023, 12, 30, 10, 0, 0, 0, time.Local),
	}
	if got := Streak(timestamps, today); got != 3 {
		t.Errorf("Streak() = %d, want 3", got)
	}
}

func TestStreak_LongRun(t *testing.T) {
	today := time.Date(2024, 12, 31, 12, 0, 0, 0, time.Local)
	var timestamps []time.Time
	for i := 0; i < 400; i++ {
		timestamps = append(timestamps, today.AddDate(0, 0, -i))
	}
	if got := Streak(timestamps, today); got != 400 {
		t.Errorf("Streak() = %d, want 400", got)
	}
}
