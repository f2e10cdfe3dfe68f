package domain

import (
	"sync"
	"time"
)

type Event interface {
	Type() string
	PublishedAt() time.Time
}

type NoCopy struct {
	sync.Mutex
}

type Aggregate struct {
	NoCopy
	events []Event
}

func (a *Aggregate) PopEvents() []Event {
	a.Lock()
	defer a.Unlock()
	events := a.events
	a.events = make([]Event, 0)
	return events
}

func (a *Aggregate) PushEvent(e Event) {
	a.Lock()
	a.events = append(a.events, e)
	a.Unlock()
}

type EventSource interface {
	PopEvents() []Event
}

// Events carries events that are not attached to a loaded aggregate.
type Events []Event

func (e *Events) PopEvents() []Event {
	events := *e
	*e = nil
	return events
}

// Tracker remembers aggregates touched by a storage so their events can be
// collected once the surrounding unit of work is done.
type Tracker struct {
	seenMu sync.Mutex
	seen   []EventSource
}

func (t *Tracker) MarkSeen(sources ...EventSource) {
	t.seenMu.Lock()
	t.seen = append(t.seen, sources...)
	t.seenMu.Unlock()
}

func (t *Tracker) CollectEvents() []Event {
	t.seenMu.Lock()
	seen := t.seen
	t.seen = nil
	t.seenMu.Unlock()

	var events []Event
	for _, s := range seen {
		events = append(events, s.PopEvents()...)
	}
	return events
}

func (t *Tracker) Clear() {
	t.seenMu.Lock()
	t.seen = nil
	t.seenMu.Unlock()
}
