package cost

import (
	"math"

	"github.com/pdrpinto/astarnav/grid"
)

// Vector is a direction in (row, col) space.
type Vector struct {
	Row float64
	Col float64
}

// VectorOf converts a grid offset.
func VectorOf(d grid.Offset) Vector { return Vector{float64(d.Row), float64(d.Col)} }

// Norm is the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Hypot(v.Row, v.Col) }

// Dot is the scalar product.
func (v Vector) Dot(u Vector) float64 { return v.Row*u.Row + v.Col*u.Col }

// HeadingVector maps a robot heading to a unit direction. A heading of 0 points
// along +col; pi/2 points along +row.
func HeadingVector(theta float64) Vector {
	return Vector{Row: math.Sin(theta), Col: math.Cos(theta)}
}

// HeadingOf is the inverse of HeadingVector. The zero vector maps to 0.
func HeadingOf(v Vector) float64 {
	if v.Norm() == 0 {
		return 0
	}
	return math.Atan2(v.Row, v.Col)
}

// SteeringPenalty is 1 - cos of the angle between prev and next: 0 when going
// straight, 1 for a right angle, 2 for a reversal. A zero-length vector on
// either side yields 0.
func SteeringPenalty(prev, next Vector) float64 {
	n := prev.Norm() * next.Norm()
	if n == 0 {
		return 0
	}
	c := prev.Dot(next) / n
	// rounding can push |c| slightly past 1
	c = math.Max(-1, math.Min(1, c))
	return 1 - c
}
