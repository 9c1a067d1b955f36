// Package grid models the occupancy map the planner searches over: a fixed-size
// rectangle of cells that are either free or blocked, addressed by (row, col).
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is the traversability flag of a single grid cell.
type Cell uint8

const (
	Free    Cell = 0
	Blocked Cell = 1
)

// ErrShape is returned when rows of different widths are supplied.
var ErrShape = errors.New("grid: ragged or empty rows")

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Offset is a displacement between two positions.
type Offset struct {
	Row int
	Col int
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position { return Position{Row: row, Col: col} }

// Add returns p moved by d.
func (p Position) Add(d Offset) Position { return Position{p.Row + d.Row, p.Col + d.Col} }

// Sub returns the offset leading from q to p.
func (p Position) Sub(q Position) Offset { return Offset{p.Row - q.Row, p.Col - q.Col} }

// Less orders positions by row, then column.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Grid is a dense rows x cols occupancy array. A Grid handed to a search must not
// be mutated until that search returns; use Clone to take a stable snapshot.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// New returns an all-free grid.
func New(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// FromRows builds a grid from nested 0/1 values; any non-zero value is blocked.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrShape
	}
	g := New(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), g.cols, ErrShape)
		}
		for c, v := range row {
			if v != 0 {
				g.cells[r*g.cols+c] = Blocked
			}
		}
	}
	return g, nil
}

// Parse reads the text form produced by String: one line per row, '.' or '0'
// for free cells and '#' or '1' for blocked ones. Blank lines are ignored.
func Parse(text string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return ParseRows(lines)
}

// ParseRows is Parse over pre-split lines.
func ParseRows(lines []string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, ErrShape
	}
	g := New(len(lines), len(lines[0]))
	for r, line := range lines {
		if len(line) != g.cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(line), g.cols, ErrShape)
		}
		for c, ch := range line {
			switch ch {
			case '.', '0':
			case '#', '1':
				g.cells[r*g.cols+c] = Blocked
			default:
				return nil, fmt.Errorf("grid: unexpected %q at %v", ch, Pos(r, c))
			}
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p addresses a cell of g.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Index linearizes p; p must be in bounds.
func (g *Grid) Index(p Position) int { return p.Row*g.cols + p.Col }

// At returns the cell at p. Out-of-bounds positions read as Blocked.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return Blocked
	}
	return g.cells[g.Index(p)]
}

// IsTraversable reports whether p is in bounds and free.
func (g *Grid) IsTraversable(p Position) bool { return g.At(p) == Free }

// Set overwrites the cell at p. Out-of-bounds writes are ignored.
func (g *Grid) Set(p Position, c Cell) {
	if g.InBounds(p) {
		g.cells[g.Index(p)] = c
	}
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// BlockedCount returns the number of blocked cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Blocked {
			n++
		}
	}
	return n
}

// NeighborsOf returns the in-bounds traversable cells one step away from p
// under conn, in the order of conn.Offsets().
func (g *Grid) NeighborsOf(p Position, conn Connectivity) []Position {
	offsets := conn.Offsets()
	out := make([]Position, 0, len(offsets))
	for _, d := range offsets {
		n := p.Add(d)
		if g.IsTraversable(n) {
			out = append(out, n)
		}
	}
	return out
}

// FreeNeighborCount is len(NeighborsOf(p, conn)) without the allocation.
func (g *Grid) FreeNeighborCount(p Position, conn Connectivity) int {
	n := 0
	for _, d := range conn.Offsets() {
		if g.IsTraversable(p.Add(d)) {
			n++
		}
	}
	return n
}

// String renders the grid with '.' for free and '#' for blocked cells.
func (g *Grid) String() string {
	return g.Render(nil)
}

// Render is String with the given positions overlaid using their runes.
func (g *Grid) Render(marks map[Position]rune) string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			p := Pos(r, c)
			if m, ok := marks[p]; ok {
				b.WriteRune(m)
				continue
			}
			if g.cells[g.Index(p)] == Blocked {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
