/*
Package maze provides tools for creating and solving rectangular grid mazes.

A maze is a Grid of Wall and Path cells with odd width and height. Logical cells
("rooms") sit on odd coordinates; the slots between them are walls that the
generator knocks down while carving. Generate produces a perfect maze (a spanning
tree over the rooms) with an iterative recursive-backtracking walk, and
FindFarthest runs a breadth-first search to pick the reachable cell with the
greatest path distance from a start cell.

Utility functions cover bounds checks, fixture parsing and ASCII rendering.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

const (
	wallGlyph   = '#'
	pathGlyph   = '.'
	playerGlyph = '@'
	goalGlyph   = 'G'
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrInvalidStart      = errors.New("start is not a path cell")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrMalformedGrid     = errors.New("malformed grid")
)

// Grid is a rectangular matrix of cells, Height rows by Width columns.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// newWallGrid allocates a grid with every cell set to Wall.
func newWallGrid(width, height int) *Grid {
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return &Grid{width: width, height: height, cells: cells}
}

// FromRows builds a grid from a copy of the given rows. Rows must be non-empty and
// all of the same length. Unlike Generate, it does not require odd dimensions.
func FromRows(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}

	g := newWallGrid(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, r, len(row), g.width)
		}
		copy(g.cells[r], row)
	}
	return g, nil
}

// Parse builds a grid from its text form: one line per row, '#' for a wall and
// '.' for a path. Surrounding blank space is ignored.
func Parse(s string) (*Grid, error) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	rows := make([][]Cell, 0, len(lines))
	for r, line := range lines {
		line = strings.TrimSpace(line)
		row := make([]Cell, 0, len(line))
		for c, ch := range line {
			switch ch {
			case wallGlyph:
				row = append(row, Wall)
			case pathGlyph:
				row = append(row, Path)
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrMalformedGrid, ch, r, c)
			}
		}
		rows = append(rows, row)
	}
	return FromRows(rows)
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBound reports whether (row, col) lies inside the grid.
func (g *Grid) InBound(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// At returns the cell at pos. Out of bounds positions read as Wall.
func (g *Grid) At(pos CellPosition) Cell {
	if !g.InBound(pos.Row, pos.Col) {
		return Wall
	}
	return g.cells[pos.Row][pos.Col]
}

// IsPath reports whether pos is inside the grid and open.
func (g *Grid) IsPath(pos CellPosition) bool {
	return g.At(pos) == Path
}

// Set changes the cell at pos. Out of bounds writes are ignored.
func (g *Grid) Set(pos CellPosition, c Cell) {
	if g.InBound(pos.Row, pos.Col) {
		g.cells[pos.Row][pos.Col] = c
	}
}

// Rows returns a deep copy of the cell matrix.
func (g *Grid) Rows() [][]Cell {
	return g.Clone().cells
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := newWallGrid(g.width, g.height)
	for r := range g.cells {
		copy(clone.cells[r], g.cells[r])
	}
	return clone
}

// String provides a textual representation of the maze in the format read by Parse.
func (g *Grid) String() string {
	return Render(g, nil)
}

// Render draws the grid with the given positions overlaid, typically the player
// and the goal. Marks outside the grid are ignored.
func Render(g *Grid, marks map[CellPosition]rune) string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if mark, ok := marks[CellPosition{Row: r, Col: c}]; ok {
				b.WriteRune(mark)
				continue
			}
			if g.cells[r][c] == Path {
				b.WriteRune(pathGlyph)
			} else {
				b.WriteRune(wallGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderGame draws the grid with the player and goal glyphs. The player wins the
// slot when both share a cell.
func RenderGame(g *Grid, player, goal CellPosition) string {
	return Render(g, map[CellPosition]rune{
		goal:   goalGlyph,
		player: playerGlyph,
	})
}
