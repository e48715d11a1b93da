// Package landscape computes persistence landscapes from birth–death pairs.
//
// Every finite pair becomes a tent-shaped "mountain". A left-to-right sweep
// keeps the live mountains ordered by value and records a vertex on level p
// whenever the mountain holding rank p takes part in an event. Rank changes
// between live mountains are found by checking adjacent mountains whose
// current segments head in opposite directions, so each level is produced
// exactly as a list of the points where it bends.
//
// Each call owns all of its state; separate calls may run concurrently.
package landscape

import (
	"io"
	"os"
)

// Stats summarises one sweep.
type Stats struct {
	// Mountains is the number of finite pairs turned into mountains.
	Mountains int `json:"mountains" yaml:"mountains"`
	// Dropped is the number of non-finite pairs skipped.
	Dropped int `json:"dropped" yaml:"dropped"`
	// Events is the number of events consumed.
	Events int `json:"events" yaml:"events"`
	// Intersections is the number of crossing events consumed.
	Intersections int `json:"intersections" yaml:"intersections"`
	// Compactions counts survivors shifted up by death correction.
	Compactions int `json:"compactions" yaml:"compactions"`
	// MaxActive is the peak number of simultaneously live mountains.
	MaxActive int `json:"max_active" yaml:"max_active"`
	// Vertices is the number of vertices kept across all levels.
	Vertices int `json:"vertices" yaml:"vertices"`
}

// Result is the outcome of Compute.
type Result struct {
	Levels []Level
	Stats  Stats
}

// Option configures Compute.
type Option func(*options)

type options struct {
	trace io.Writer
}

// WithTrace writes every consumed event and the active set after it to w.
// A nil writer disables tracing.
func WithTrace(w io.Writer) Option {
	return func(o *options) {
		o.trace = w
	}
}

// Compute builds the first k landscape levels of pairs.
// Pairs with a NaN or infinite coordinate are dropped. Negative k is treated as 0.
// Levels that never receive a vertex are empty.
func Compute(pairs []Pair, k int, opts ...Option) Result {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	s := newSweeper(pairs, k, o.trace)
	s.run()

	return Result{Levels: s.levels, Stats: s.stats}
}

// Generate returns the first k landscape levels of pairs. With debug set, the
// event trace is written to standard error; it does not affect the result.
func Generate(pairs []Pair, k int, debug bool) []Level {
	var trace io.Writer
	if debug {
		trace = os.Stderr
	}

	return Compute(pairs, k, WithTrace(trace)).Levels
}
