package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/thrift/internal/models"
)

func TestByCategory(t *testing.T) {
	now := time.Now()

	t.Run("sums one label", func(t *testing.T) {
		groups := ByCategory([]models.Entry{entryAt(now, "5", "Food"), entryAt(now, "-3", "Food")})
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		if groups[0].Category != "Food" || !groups[0].Total.Equal(decimal.NewFromInt(2)) || groups[0].Count != 2 {
			t.Errorf("group = %+v, want Food 2", groups[0])
		}
	})

	t.Run("orders by absolute total", func(t *testing.T) {
		groups := ByCategory([]models.Entry{
			entryAt(now, "10", "Books"),
			entryAt(now, "-50", "Taxi"),
			entryAt(now, "20", "Food"),
			entryAt(now, "-20", "Games"),
		})
		want := []string{"Taxi", "Food", "Games", "Books"}
		if len(groups) != len(want) {
			t.Fatalf("got %d groups, want %d", len(groups), len(want))
		}
		for i, name := range want {
			if groups[i].Category != name {
				t.Errorf("groups[%d] = %s, want %s", i, groups[i].Category, name)
			}
		}
	})

	t.Run("labels are case sensitive", func(t *testing.T) {
		groups := ByCategory([]models.Entry{entryAt(now, "1", "food"), entryAt(now, "1", "Food")})
		if len(groups) != 2 {
			t.Errorf("got %d groups, want 2", len(groups))
		}
	})

	t.Run("empty log", func(t *testing.T) {
		if groups := ByCategory(nil); len(groups) != 0 {
			t.Errorf("got %d groups, want 0", len(groups))
		}
	})
}

func TestPieSlices(t *testing.T) {
	slices := PieSlices([]CategoryTotal{
		{Category: "A", Total: decimal.NewFromInt(-50)},
		{Category: "B", Total: decimal.NewFromInt(25)},
		{Category: "C", Total: decimal.NewFromInt(25)},
		{Category: "D", Total: decimal.Zero},
	})

	want := []struct {
		start, sweep float64
	}{{0, 180}, {180, 90}, {270, 90}, {360, 0}}
	for i, w := range want {
		if math.Abs(slices[i].Start-w.start) > 1e-9 || math.Abs(slices[i].Sweep-w.sweep) > 1e-9 {
			t.Errorf("slice %d = [%v +%v], want [%v +%v]", i, slices[i].Start, slices[i].Sweep, w.start, w.sweep)
		}
	}

	t.Run("all zero", func(t *testing.T) {
		zero := PieSlices([]CategoryTotal{{Category: "A", Total: decimal.Zero}})
		if zero[0].Sweep != 0 {
			t.Errorf("sweep = %v, want 0", zero[0].Sweep)
		}
		if _, ok := SliceAt(zero, 10); ok {
			t.Error("empty slice must not be hit")
		}
	})
}

func TestSliceAt(t *testing.T) {
	slices := PieSlices([]CategoryTotal{
		{Category: "A", Total: decimal.NewFromInt(50)},
		{Category: "B", Total: decimal.NewFromInt(25)},
		{Category: "C", Total: decimal.NewFromInt(25)},
	})

	tests := []struct {
		angle float64
		want  string
	}{
		{0, "A"},
		{179.9, "A"},
		{180, "B"},
		{300, "C"},
		{359.999, "C"},
		{360, "A"},
		{-90, "C"},
		{450, "A"},
		{630, "C"},
	}
	for _, tt := range tests {
		got, ok := SliceAt(slices, tt.angle)
		if !ok || got.Category != tt.want {
			t.Errorf("SliceAt(%v) = %q, %v; want %q", tt.angle, got.Category, ok, tt.want)
		}
	}

	if _, ok := SliceAt(nil, 10); ok {
		t.Error("no slices must not be hit")
	}
}

func TestSliceAtPoint(t *testing.T) {
	slices := PieSlices([]CategoryTotal{
		{Category: "Right", Total: decimal.NewFromInt(1)},  // 0..90
		{Category: "Bottom", Total: decimal.NewFromInt(1)}, // 90..180
		{Category: "Left", Total: decimal.NewFromInt(1)},   // 180..270
		{Category: "Top", Total: decimal.NewFromInt(1)},    // 270..360
	})
	cx, cy, r := 100.0, 100.0, 50.0

	tests := []struct {
		name string
		x, y float64
		want string
		hit  bool
	}{
		{"upper right quadrant", 130, 70, "Right", true},
		{"lower right quadrant", 130, 130, "Bottom", true},
		{"lower left quadrant", 70, 130, "Left", true},
		{"upper left quadrant", 70, 70, "Top", true},
		{"outside radius", 190, 100, "", false},
		{"on the rim", 100, 50, "Right", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SliceAtPoint(slices, tt.x, tt.y, cx, cy, r)
			if ok != tt.hit || got.Category != tt.want {
				t.Errorf("SliceAtPoint() = %q, %v; want %q, %v", got.Category, ok, tt.want, tt.hit)
			}
		})
	}
}
