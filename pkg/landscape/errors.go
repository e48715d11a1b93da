package landscape

import "fmt"

// InvariantError describes a broken sweep invariant. The sweep panics with it;
// it signals a defect in event scheduling or active-set bookkeeping, never bad input.
type InvariantError struct {
	Op       string
	Reason   string
	Mountain int
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("landscape: %s: mountain %d: %s", e.Op, e.Mountain, e.Reason)
}
