package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventBefore_KindOrderAtSamePoint verifies Intersection < Death < Middle < Birth.
func TestEventBefore_KindOrderAtSamePoint(t *testing.T) {
	t.Parallel()

	at := Point{X: 2, Y: 0}
	inter := event{at: at, kind: kindIntersection, mountain: 3, other: 4}
	death := event{at: at, kind: kindDeath, mountain: 0, other: noMountain}
	middle := event{at: at, kind: kindMiddle, mountain: 0, other: noMountain}
	birth := event{at: at, kind: kindBirth, mountain: 0, other: noMountain}

	assert.True(t, inter.before(death))
	assert.True(t, death.before(middle))
	assert.True(t, middle.before(birth))
	assert.False(t, birth.before(death))
}

// TestEventBefore_XDominates verifies a smaller x always fires first.
func TestEventBefore_XDominates(t *testing.T) {
	t.Parallel()

	early := event{at: Point{X: 1, Y: 9}, kind: kindBirth, mountain: 7, other: noMountain}
	late := event{at: Point{X: 2, Y: 0}, kind: kindIntersection, mountain: 0, other: 1}

	assert.True(t, early.before(late))
	assert.False(t, late.before(early))
}

// TestEventBefore_ClampedCrossingBeforeDeath verifies kind beats y at equal x.
func TestEventBefore_ClampedCrossingBeforeDeath(t *testing.T) {
	t.Parallel()

	crossing := event{at: Point{X: 4, Y: 0.25}, kind: kindIntersection, mountain: 0, other: 1}
	death := event{at: Point{X: 4, Y: 0}, kind: kindDeath, mountain: 0, other: noMountain}

	assert.True(t, crossing.before(death))
}

// TestEventBefore_IDTieBreak verifies equal events are ordered by ids.
func TestEventBefore_IDTieBreak(t *testing.T) {
	t.Parallel()

	at := Point{X: 4, Y: 0}
	a := event{at: at, kind: kindDeath, mountain: 0, other: noMountain}
	b := event{at: at, kind: kindDeath, mountain: 1, other: noMountain}

	assert.True(t, a.before(b))
	assert.False(t, b.before(a))
	assert.False(t, a.before(a))
}

// TestStructuralEvents verifies three events per mountain.
func TestStructuralEvents(t *testing.T) {
	t.Parallel()

	mountains, dropped := buildMountains([]Pair{{Birth: 0, Death: 4}, {Birth: 1, Death: 3}})
	require.Zero(t, dropped)

	events := structuralEvents(mountains)
	require.Len(t, events, 6)

	assert.Equal(t, event{at: Point{X: 0, Y: 0}, kind: kindBirth, mountain: 0, other: noMountain}, events[0])
	assert.Equal(t, event{at: Point{X: 2, Y: 2}, kind: kindMiddle, mountain: 0, other: noMountain}, events[1])
	assert.Equal(t, event{at: Point{X: 4, Y: 0}, kind: kindDeath, mountain: 0, other: noMountain}, events[2])
	assert.Equal(t, kindMiddle, events[4].kind)
	assert.Equal(t, Point{X: 2, Y: 1}, events[4].at)
}

// TestEventQueue_PopsInOrder verifies heap ordering.
func TestEventQueue_PopsInOrder(t *testing.T) {
	t.Parallel()

	q := newEventQueue([]event{
		{at: Point{X: 3}, kind: kindBirth, other: noMountain},
		{at: Point{X: 1}, kind: kindDeath, other: noMountain},
		{at: Point{X: 1}, kind: kindBirth, other: noMountain},
		{at: Point{X: 2}, kind: kindMiddle, other: noMountain},
	})
	q.pushEvent(event{at: Point{X: 1}, kind: kindIntersection, other: 1})

	var got []eventKind

	var xs []float32

	for !q.empty() {
		ev := q.popEvent()
		got = append(got, ev.kind)
		xs = append(xs, ev.at.X)
	}

	assert.Equal(t, []eventKind{kindIntersection, kindDeath, kindBirth, kindMiddle, kindBirth}, got)
	assert.Equal(t, []float32{1, 1, 1, 2, 3}, xs)
}

// TestNextEvent_MergesQueues verifies the two queues act as one stream.
func TestNextEvent_MergesQueues(t *testing.T) {
	t.Parallel()

	base := newEventQueue([]event{
		{at: Point{X: 1}, kind: kindBirth, other: noMountain},
		{at: Point{X: 5, Y: 0}, kind: kindDeath, other: noMountain},
	})
	found := newEventQueue(nil)
	found.pushEvent(event{at: Point{X: 5, Y: 1}, kind: kindIntersection, other: 1})

	assert.Equal(t, kindBirth, nextEvent(base, found).kind)
	assert.Equal(t, kindIntersection, nextEvent(base, found).kind)
	assert.Equal(t, kindDeath, nextEvent(base, found).kind)
	assert.True(t, base.empty())
	assert.True(t, found.empty())
}

// TestEventKind_String verifies kind names.
func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Intersection", kindIntersection.String())
	assert.Equal(t, "Birth", kindBirth.String())
	assert.Equal(t, "eventKind(9)", eventKind(9).String())
}
