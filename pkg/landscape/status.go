package landscape

// direction selects a neighbour in the active set.
type direction int

const (
	// above is the neighbour with the next larger value (index-1).
	above direction = iota
	// below is the neighbour with the next smaller value (index+1).
	below
)

// status is the active set: ids of live mountains ordered by value, largest
// first. Index i is landscape level i.
type status struct {
	ids    []int
	replay []int
}

func (s *status) len() int { return len(s.ids) }

// neighbor returns the id next to position pos in direction dir.
func (s *status) neighbor(pos int, dir direction) (int, bool) {
	idx := pos + 1
	if dir == above {
		idx = pos - 1
	}

	if idx < 0 || idx >= len(s.ids) {
		return 0, false
	}

	return s.ids[idx], true
}

// pushTail appends id at the lowest rank and returns its position.
func (s *status) pushTail(id int) int {
	before := len(s.ids)
	s.ids = append(s.ids, id)

	if len(s.ids) != before+1 {
		panic(&InvariantError{Op: "birth", Mountain: id, Reason: "active set did not grow by one"})
	}

	return before
}

// removeAndCompact removes the entry at pos. Entries ranked below it move up
// one place; shifted is called for each of them, top to bottom, after the
// removal. The dying entry should already be the tail; when rounding put a
// crossing after the death it is not, and this pass repairs the ranks.
func (s *status) removeAndCompact(pos int, shifted func(id int)) {
	s.replay = s.replay[:0]

	for len(s.ids)-1 > pos {
		last := len(s.ids) - 1
		s.replay = append(s.replay, s.ids[last])
		s.ids = s.ids[:last]
	}

	s.ids = s.ids[:len(s.ids)-1]

	for i := len(s.replay) - 1; i >= 0; i-- {
		id := s.replay[i]
		s.ids = append(s.ids, id)
		shifted(id)
	}
}

// swap exchanges the entries at positions a and b.
func (s *status) swap(a, b int) {
	s.ids[a], s.ids[b] = s.ids[b], s.ids[a]
}

// snapshot returns a copy of the active set.
func (s *status) snapshot() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)

	return out
}
