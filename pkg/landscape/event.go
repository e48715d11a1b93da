package landscape

import (
	"container/heap"
	"fmt"
)

// eventKind orders same-position events: lower kinds fire first.
type eventKind uint8

// Event kinds in firing order for equal positions.
const (
	kindIntersection eventKind = iota
	kindDeath
	kindMiddle
	kindBirth
)

// noMountain marks the empty second participant of structural events.
const noMountain = -1

var kindNames = [...]string{
	kindIntersection: "Intersection",
	kindDeath:        "Death",
	kindMiddle:       "Middle",
	kindBirth:        "Birth",
}

// String returns the kind name.
func (k eventKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("eventKind(%d)", k)
}

// event is a scheduled sweep occurrence. Only intersections carry other.
type event struct {
	at       Point
	kind     eventKind
	mountain int
	other    int
}

// before reports whether e fires before o. Ordering is by x, then kind, then y,
// then by mountain ids, which makes it total. Deaths sharing a point are
// reordered by rank when popped.
func (e event) before(o event) bool {
	switch {
	case e.at.X != o.at.X:
		return e.at.X < o.at.X
	case e.kind != o.kind:
		return e.kind < o.kind
	case e.at.Y != o.at.Y:
		return e.at.Y < o.at.Y
	case e.mountain != o.mountain:
		return e.mountain < o.mountain
	default:
		return e.other < o.other
	}
}

// structuralEvents returns the Birth, Middle and Death events of every mountain.
func structuralEvents(mountains []mountain) []event {
	events := make([]event, 0, len(mountains)*3)

	for i := range mountains {
		m := &mountains[i]
		events = append(events,
			event{at: m.birth, kind: kindBirth, mountain: m.id, other: noMountain},
			event{at: m.middle, kind: kindMiddle, mountain: m.id, other: noMountain},
			event{at: m.death, kind: kindDeath, mountain: m.id, other: noMountain},
		)
	}

	return events
}

// eventQueue is a min-heap of events.
type eventQueue []event

// newEventQueue heapifies events in place.
func newEventQueue(events []event) *eventQueue {
	q := eventQueue(events)
	heap.Init(&q)

	return &q
}

// Len returns the number of pending events.
func (q eventQueue) Len() int { return len(q) }

// Less orders events by firing order.
func (q eventQueue) Less(i, j int) bool { return q[i].before(q[j]) }

// Swap swaps two events.
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

// Push appends an event; use pushEvent instead.
func (q *eventQueue) Push(x any) { *q = append(*q, x.(event)) }

// Pop removes the last event; use popEvent instead.
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]

	return ev
}

func (q *eventQueue) pushEvent(ev event) { heap.Push(q, ev) }

func (q *eventQueue) popEvent() event { return heap.Pop(q).(event) }

func (q *eventQueue) peek() event { return (*q)[0] }

func (q *eventQueue) empty() bool { return len(*q) == 0 }

// nextEvent pops the earliest event across the structural and intersection queues.
// It must not be called when both are empty.
func nextEvent(base, found *eventQueue) event {
	switch {
	case found.empty():
		return base.popEvent()
	case base.empty():
		return found.popEvent()
	case found.peek().before(base.peek()):
		return found.popEvent()
	default:
		return base.popEvent()
	}
}
