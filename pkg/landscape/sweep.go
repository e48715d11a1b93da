package landscape

import (
	"cmp"
	"fmt"
	"slices"
	"io"
	"strings"
)

// traceSeparator ends each event block in the debug trace.
var traceSeparator = strings.Repeat("=", 64)

// sweeper holds the state of one landscape computation. Nothing in it is
// shared between calls.
type sweeper struct {
	mountains []mountain
	base      *eventQueue
	found     *eventQueue
	active    status
	levels    []Level
	stats     Stats
	trace     io.Writer
	dying     []event
}

func newSweeper(pairs []Pair, k int, trace io.Writer) *sweeper {
	mountains, dropped := buildMountains(pairs)

	return &sweeper{
		mountains: mountains,
		base:      newEventQueue(structuralEvents(mountains)),
		found:     newEventQueue(nil),
		levels:    Empty(k),
		stats:     Stats{Mountains: len(mountains), Dropped: dropped},
		trace:     trace,
	}
}

// run consumes events until both queues are drained.
func (s *sweeper) run() {
	for !s.base.empty() || !s.found.empty() {
		ev := nextEvent(s.base, s.found)
		if ev.kind == kindDeath {
			s.deaths(ev)

			continue
		}

		s.consume(ev)
	}
}

// deaths retires ev together with every other death at the same point,
// lowest rank first, so no survivor is shifted across a closing level.
func (s *sweeper) deaths(ev event) {
	group := append(s.dying[:0], ev)

	for !s.base.empty() {
		next := s.base.peek()
		if next.kind != kindDeath || next.at != ev.at {
			break
		}

		group = append(group, s.base.popEvent())
	}

	slices.SortStableFunc(group, func(a, b event) int {
		return cmp.Compare(s.mountains[b.mountain].rank("death"), s.mountains[a.mountain].rank("death"))
	})

	for _, d := range group {
		s.consume(d)
	}

	s.dying = group
}

// consume applies a single event.
func (s *sweeper) consume(ev event) {
	s.stats.Events++
	s.traceEvent(ev)

	switch ev.kind {
	case kindBirth:
		s.birth(ev)
	case kindMiddle:
		s.middle(ev)
	case kindDeath:
		s.death(ev)
	case kindIntersection:
		s.intersection(ev)
	}

	s.stats.MaxActive = max(s.stats.MaxActive, s.active.len())
	s.traceStatus()
}

func (s *sweeper) birth(ev event) {
	m := &s.mountains[ev.mountain]
	m.position = s.active.pushTail(m.id)

	s.emit(m, ev.at)
	s.probe(m, above)
}

func (s *sweeper) middle(ev event) {
	m := &s.mountains[ev.mountain]
	m.rising = false

	s.emit(m, ev.at)
	s.probe(m, below)
}

func (s *sweeper) death(ev event) {
	m := &s.mountains[ev.mountain]
	pos := m.rank("death")

	s.emit(m, ev.at)
	m.position = noPosition

	s.active.removeAndCompact(pos, func(id int) {
		survivor := &s.mountains[id]
		survivor.position = survivor.rank("death compaction") - 1
		s.stats.Compactions++

		s.emit(survivor, ev.at)
	})
}

func (s *sweeper) intersection(ev event) {
	if ev.other == noMountain {
		panic(&InvariantError{Op: "intersection", Mountain: ev.mountain, Reason: "missing second mountain"})
	}

	s.stats.Intersections++

	first := &s.mountains[ev.mountain]
	second := &s.mountains[ev.other]

	s.emit(first, ev.at)
	s.emit(second, ev.at)

	// The rising mountain is the lower one up to the crossing.
	lower, upper := second, first
	if first.rising {
		lower, upper = first, second
	}

	lowerPos := lower.rank("intersection")
	upperPos := upper.rank("intersection")

	s.active.swap(lowerPos, upperPos)
	lower.position, upper.position = upperPos, lowerPos

	s.probe(lower, above)
	s.probe(upper, below)
}

// probe schedules the crossing between m and its neighbour in direction dir, if any.
func (s *sweeper) probe(m *mountain, dir direction) {
	id, ok := s.active.neighbor(m.rank("intersection probe"), dir)
	if !ok {
		return
	}

	p, ok := crossing(m, &s.mountains[id])
	if !ok {
		return
	}

	s.found.pushEvent(event{at: p, kind: kindIntersection, mountain: m.id, other: id})
}

// emit appends p to the level of m's rank when that level is kept.
func (s *sweeper) emit(m *mountain, p Point) {
	pos := m.rank("emit")
	if pos >= len(s.levels) {
		return
	}

	s.levels[pos] = append(s.levels[pos], p)
	s.stats.Vertices++
}

func (s *sweeper) traceEvent(ev event) {
	if s.trace == nil {
		return
	}

	if ev.other == noMountain {
		fmt.Fprintf(s.trace, "event kind=%s x=%g y=%g mountain=%d\n", ev.kind, ev.at.X, ev.at.Y, ev.mountain)

		return
	}

	fmt.Fprintf(s.trace, "event kind=%s x=%g y=%g mountain=%d other=%d\n",
		ev.kind, ev.at.X, ev.at.Y, ev.mountain, ev.other)
}

func (s *sweeper) traceStatus() {
	if s.trace == nil {
		return
	}

	fmt.Fprintf(s.trace, "status %v\n%s\n", s.active.snapshot(), traceSeparator)
}
