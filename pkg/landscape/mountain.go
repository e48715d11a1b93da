package landscape

import (
	"cmp"
	"slices"
)

// noPosition marks a mountain that is not in the active set.
const noPosition = -1

// mountain is the tent function of one finite pair.
// Mountains refer to each other only through their ids.
type mountain struct {
	id       int
	birth    Point
	middle   Point
	death    Point
	rising   bool
	position int
}

// newMountain builds the tent over [birth, death] with its apex at the midpoint.
func newMountain(id int, birth, death float32) mountain {
	half := (death - birth) / 2

	return mountain{
		id:       id,
		birth:    Point{X: birth, Y: 0},
		middle:   Point{X: birth + half, Y: half},
		death:    Point{X: death, Y: 0},
		rising:   true,
		position: noPosition,
	}
}

// alive reports whether the mountain currently sits in the active set.
func (m *mountain) alive() bool {
	return m.position != noPosition
}

// rank returns the active-set position, panicking for a mountain that is not alive.
func (m *mountain) rank(op string) int {
	if !m.alive() {
		panic(&InvariantError{Op: op, Mountain: m.id, Reason: "mountain is not alive"})
	}

	return m.position
}

// segment returns the part of the tent the sweep is currently on.
func (m *mountain) segment() segment {
	if m.rising {
		return segment{start: m.birth, end: m.middle}
	}

	return segment{start: m.middle, end: m.death}
}

// buildMountains drops non-finite pairs and numbers the rest by birth, longest
// first on equal births, so ids do not depend on input order.
// It returns the mountains and the number of dropped pairs.
func buildMountains(pairs []Pair) ([]mountain, int) {
	finite := make([]Pair, 0, len(pairs))

	for _, p := range pairs {
		if p.Finite() {
			finite = append(finite, p)
		}
	}

	slices.SortStableFunc(finite, func(a, b Pair) int {
		if c := cmp.Compare(a.Birth, b.Birth); c != 0 {
			return c
		}

		return cmp.Compare(b.Death, a.Death)
	})

	mountains := make([]mountain, len(finite))
	for i, p := range finite {
		mountains[i] = newMountain(i, p.Birth, p.Death)
	}

	return mountains, len(pairs) - len(mountains)
}
