package grid

import "fmt"

// Connectivity selects which cells count as adjacent.
type Connectivity int

const (
	// Four allows orthogonal moves only.
	Four Connectivity = 4
	// Eight adds the diagonals.
	Eight Connectivity = 8
)

var (
	orthogonal = []Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	all        = []Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// Offsets returns the unit displacements for c. The slice must not be modified.
func (c Connectivity) Offsets() []Offset {
	if c == Eight {
		return all
	}
	return orthogonal
}

// Valid reports whether c is Four or Eight.
func (c Connectivity) Valid() bool { return c == Four || c == Eight }

// Adjacent reports whether b is exactly one step from a under c.
func (c Connectivity) Adjacent(a, b Position) bool {
	d := b.Sub(a)
	for _, o := range c.Offsets() {
		if o == d {
			return true
		}
	}
	return false
}

func (c Connectivity) String() string {
	switch c {
	case Four:
		return "4"
	case Eight:
		return "8"
	}
	return fmt.Sprintf("Connectivity(%d)", int(c))
}
