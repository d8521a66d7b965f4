package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/thrift/internal/logger"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/storage"
)

// Source is the read side of a store.
type Source interface {
	GetAllEntries() ([]models.Entry, error)
	GetAllGoals() ([]models.Goal, error)
	GetSettings() (models.Settings, error)
}

// Snapshot is every derived value at one instant.
type Snapshot struct {
	At           time.Time
	Currency     string
	EntryCount   int
	Totals       Totals
	Periods      map[Period]Totals
	Categories   []CategoryTotal
	Slices       []PieSlice
	Goals        []GoalStatus
	Streak       int
	Achievements []models.AchievementProgress
}

// Compute derives a Snapshot from store contents.
func Compute(entries []models.Entry, goals []models.Goal, settings models.Settings, now time.Time) Snapshot {
	timestamps := make([]time.Time, len(entries))
	for i, e := range entries {
		timestamps[i] = e.Timestamp
	}

	totals := ComputeTotals(entries)
	streak := Streak(timestamps, now)
	categories := ByCategory(entries)

	return Snapshot{
		At:           now,
		Currency:     settings.Currency,
		EntryCount:   len(entries),
		Totals:       totals,
		Periods:      PeriodSums(entries, now),
		Categories:   categories,
		Slices:       PieSlices(categories),
		Goals:        EvaluateGoals(goals, entries),
		Streak:       streak,
		Achievements: EvaluateAchievements(models.Achievements(), totals, streak, settings.Currency),
	}
}

// Pipeline recomputes snapshots from a Source and fans them out to
// subscribers.
type Pipeline struct {
	source Source
	clock  func() time.Time

	// refreshMu serializes load, compute and delivery so snapshots reach
	// subscribers in the order the store was read.
	refreshMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	subs    map[int]func(Snapshot)
	order   []int
	last    Snapshot
	hasLast bool
}

// New creates a pipeline. A nil clock means time.Now.
func New(source Source, clock func() time.Time) *Pipeline {
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		source: source,
		clock:  clock,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Refresh loads entries, goals and settings concurrently, computes a new
// snapshot and delivers it to every subscriber. Concurrent calls run one at
// a time, so the last delivered snapshot always reflects the latest read.
func (p *Pipeline) Refresh(ctx context.Context) (Snapshot, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	var (
		entries  []models.Entry
		goals    []models.Goal
		settings models.Settings
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if entries, err = p.source.GetAllEntries(); err != nil {
			return fmt.Errorf("loading entries: %w", err)
		}
		return ctx.Err()
	})
	g.Go(func() error {
		var err error
		if goals, err = p.source.GetAllGoals(); err != nil {
			return fmt.Errorf("loading goals: %w", err)
		}
		return ctx.Err()
	})
	g.Go(func() error {
		var err error
		if settings, err = p.source.GetSettings(); err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	models.ApplyDefaultSettings(&settings)
	snap := Compute(entries, goals, settings, p.clock())

	p.mu.Lock()
	p.last = snap
	p.hasLast = true
	fns := make([]func(Snapshot), 0, len(p.order))
	for _, id := range p.order {
		fns = append(fns, p.subs[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return snap, nil
}

// Last returns the most recent snapshot, if any.
func (p *Pipeline) Last() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

// Subscribe registers fn for every future snapshot. If a snapshot has already
// been computed, fn receives it immediately.
func (p *Pipeline) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.order = append(p.order, id)
	last, hasLast := p.last, p.hasLast
	p.mu.Unlock()

	if hasLast {
		fn(last)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[id]; !ok {
			return
		}
		delete(p.subs, id)
		for i, v := range p.order {
			if v == id {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
	}
}

// Start recomputes after every entry, goal or settings change published on
// broker. Recompute failures are logged and dropped. The returned function
// detaches the pipeline from the broker.
func (p *Pipeline) Start(ctx context.Context, broker *storage.Broker) func() {
	return broker.Subscribe(func(c storage.Change) {
		if c.Kind == storage.ChangeCategories {
			return
		}
		if _, err := p.Refresh(ctx); err != nil {
			logger.Error("Failed to recompute statistics", "kind", c.Kind, "op", c.Op, "error", err)
		}
	})
}
