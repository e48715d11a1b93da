package landscape

import "sort"

// Support returns the x-range covered by the level's vertices.
func (l Level) Support() (lo, hi float32, ok bool) {
	if len(l) == 0 {
		return 0, 0, false
	}

	return l[0].X, l[len(l)-1].X, true
}

// ValueAt evaluates the level at x by linear interpolation between vertices.
// The level is zero outside its support. When several vertices share x the
// first one wins.
func (l Level) ValueAt(x float32) float32 {
	lo, hi, ok := l.Support()
	if !ok || x < lo || x > hi {
		return 0
	}

	i := sort.Search(len(l), func(i int) bool { return l[i].X >= x })
	if l[i].X == x {
		return l[i].Y
	}

	prev, next := l[i-1], l[i]
	t := (x - prev.X) / (next.X - prev.X)

	return prev.Y + t*(next.Y-prev.Y)
}

// Values evaluates every level at x.
func Values(levels []Level, x float32) []float32 {
	out := make([]float32, len(levels))
	for i, l := range levels {
		out[i] = l.ValueAt(x)
	}

	return out
}
