package landscape

// segment is a closed line segment between two points.
type segment struct {
	start Point
	end   Point
}

// orientation returns the sign of the turn a→b→c: 1 counter-clockwise,
// -1 clockwise, 0 collinear.
func orientation(a, b, c Point) int {
	v := (float64(b.X)-float64(a.X))*(float64(c.Y)-float64(a.Y)) -
		(float64(b.Y)-float64(a.Y))*(float64(c.X)-float64(a.X))

	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// intersect returns the single point shared by two segments. Collinear,
// parallel, disjoint and degenerate configurations report false.
// Endpoint contacts count as a single point.
func intersect(a, b segment) (Point, bool) {
	o1 := orientation(a.start, a.end, b.start)
	o2 := orientation(a.start, a.end, b.end)

	if o1 == 0 && o2 == 0 {
		return Point{}, false
	}

	o3 := orientation(b.start, b.end, a.start)
	o4 := orientation(b.start, b.end, a.end)

	if o1*o2 > 0 || o3*o4 > 0 {
		return Point{}, false
	}

	rx := float64(a.end.X) - float64(a.start.X)
	ry := float64(a.end.Y) - float64(a.start.Y)
	sx := float64(b.end.X) - float64(b.start.X)
	sy := float64(b.end.Y) - float64(b.start.Y)

	denom := rx*sy - ry*sx
	if denom == 0 {
		return Point{}, false
	}

	qx := float64(b.start.X) - float64(a.start.X)
	qy := float64(b.start.Y) - float64(a.start.Y)
	t := min(max((qx*sy-qy*sx)/denom, 0), 1)

	return Point{
		X: float32(float64(a.start.X) + t*rx),
		Y: float32(float64(a.start.Y) + t*ry),
	}, true
}

// crossing returns where the current segments of two mountains cross.
// Mountains heading the same way never need one: same-direction segments are
// parallel and their rank changes come from Middle and Death events.
// The x-coordinate is clamped to both deaths so rounding cannot push a
// crossing past the end of either mountain.
func crossing(m1, m2 *mountain) (Point, bool) {
	if m1.rising == m2.rising {
		return Point{}, false
	}

	p, ok := intersect(m1.segment(), m2.segment())
	if !ok {
		return Point{}, false
	}

	p.X = min(p.X, m1.death.X, m2.death.X)

	return p, true
}
