package storage

import "sync"

// ChangeKind names the collection a mutation touched.
type ChangeKind string

const (
	ChangeEntries    ChangeKind = "entries"
	ChangeGoals      ChangeKind = "goals"
	ChangeCategories ChangeKind = "categories"
	ChangeSettings   ChangeKind = "settings"
)

// Op is the mutation that produced a Change.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed mutation.
type Change struct {
	Kind ChangeKind
	Op   Op
	ID   string
}

// Broker fans store changes out to registered callbacks. Callbacks run
// synchronously on the publishing goroutine, in registration order.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Change)
	order  []int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Broker) Subscribe(fn func(Change)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; !ok {
			return
		}
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers c to every current subscriber. The subscriber list is
// copied first, so callbacks may subscribe or unsubscribe.
func (b *Broker) Publish(c Change) {
	b.mu.Lock()
	fns := make([]func(Change), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
