// Package goalboard holds the goal screen state: goals split into active and
// completed groups, and at most one delete or edit awaiting confirmation.
package goalboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

// ErrNoPending is returned by Confirm when nothing awaits confirmation.
var ErrNoPending = errors.New("no pending goal action")

// Store is the write side the board applies confirmed actions to.
type Store interface {
	UpdateGoal(models.Goal) error
	DeleteGoal(id string) error
}

type ActionKind string

const (
	ActionDelete ActionKind = "delete"
	ActionEdit   ActionKind = "edit"
)

// Pending is an action held until Confirm or Cancel.
type Pending struct {
	Kind ActionKind
	Goal models.Goal // for ActionDelete, the goal as it was when requested
}

type Board struct {
	store Store

	mu        sync.Mutex
	active    []pipeline.GoalStatus
	completed []pipeline.GoalStatus
	pending   *Pending
}

func New(store Store) *Board {
	return &Board{store: store}
}

// Update replaces the board contents with freshly derived statuses. A pending
// action whose goal no longer exists is dropped.
func (b *Board) Update(statuses []pipeline.GoalStatus) {
	active, completed := pipeline.PartitionGoals(statuses)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.active, b.completed = active, completed
	if b.pending != nil {
		if _, ok := b.findLocked(b.pending.Goal.ID); !ok {
			b.pending = nil
		}
	}
}

func (b *Board) Active() []pipeline.GoalStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]pipeline.GoalStatus(nil), b.active...)
}

func (b *Board) Completed() []pipeline.GoalStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]pipeline.GoalStatus(nil), b.completed...)
}

// Find looks a goal up in either group.
func (b *Board) Find(id string) (pipeline.GoalStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

func (b *Board) findLocked(id string) (pipeline.GoalStatus, bool) {
	for _, group := range [][]pipeline.GoalStatus{b.active, b.completed} {
		for _, s := range group {
			if s.Goal.ID == id {
				return s, true
			}
		}
	}
	return pipeline.GoalStatus{}, false
}

// RequestDelete holds a delete of goal id until confirmed. Any earlier
// pending action is discarded.
func (b *Board) RequestDelete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, ok := b.findLocked(id)
	if !ok {
		return fmt.Errorf("goal %s: %w", id, models.ErrNotFound)
	}
	b.pending = &Pending{Kind: ActionDelete, Goal: status.Goal}
	return nil
}

// RequestEdit holds a replacement of the goal with the same ID until
// confirmed. Any earlier pending action is discarded. Completed goals may be
// edited like any other.
func (b *Board) RequestEdit(goal models.Goal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.findLocked(goal.ID); !ok {
		return fmt.Errorf("goal %s: %w", goal.ID, models.ErrNotFound)
	}
	b.pending = &Pending{Kind: ActionEdit, Goal: goal}
	return nil
}

// Pending returns the action awaiting confirmation, if any.
func (b *Board) Pending() (Pending, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return Pending{}, false
	}
	return *b.pending, true
}

// Cancel drops the pending action without touching the store.
func (b *Board) Cancel() {
	b.mu.Lock()
	b.pending = nil
	b.mu.Unlock()
}

// Confirm applies the pending action to the store. The action is consumed
// whether or not the store call succeeds; there is no retry.
func (b *Board) Confirm() error {
	b.mu.Lock()
	p := b.pending
	b.pending = nil
	b.mu.Unlock()

	if p == nil {
		return ErrNoPending
	}

	switch p.Kind {
	case ActionDelete:
		if err := b.store.DeleteGoal(p.Goal.ID); err != nil {
			return fmt.Errorf("deleting goal %q: %w", p.Goal.Name, err)
		}
	case ActionEdit:
		if err := b.store.UpdateGoal(p.Goal); err != nil {
			return fmt.Errorf("updating goal %q: %w", p.Goal.Name, err)
		}
	}
	return nil
}
