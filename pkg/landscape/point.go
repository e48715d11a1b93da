package landscape

import (
	"fmt"
	"math"
)

// Point is a landscape vertex or an event position.
type Point struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// String renders the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Pair is one birth–death interval of a persistence diagram.
type Pair struct {
	Birth float32 `json:"birth" yaml:"birth"`
	Death float32 `json:"death" yaml:"death"`
}

// Finite reports whether both coordinates are finite numbers.
// Non-finite pairs never become mountains.
func (p Pair) Finite() bool {
	return isFinite(p.Birth) && isFinite(p.Death)
}

// Level is one landscape function, given by its vertices in sweep order.
// Consecutive vertices are joined by straight lines.
type Level []Point

// Empty returns k empty levels.
func Empty(k int) []Level {
	k = max(k, 0)

	levels := make([]Level, k)
	for i := range levels {
		levels[i] = Level{}
	}

	return levels
}

func isFinite(v float32) bool {
	f := float64(v)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
