package maze

import (
	"fmt"
	"strings"
)

// Cell is the state of a single grid slot.
type Cell uint8

const (
	Wall Cell = iota // Wall blocks movement. It is the zero value so fresh grids start solid.
	Path             // Path is an open, walkable slot.
)

// String returns the glyph used by the ASCII rendering.
func (c Cell) String() string {
	if c == Path {
		return string(pathGlyph)
	}
	return string(wallGlyph)
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// GetRow returns the row index of the cell.
func (cp CellPosition) GetRow() int {
	return cp.Row
}

// GetCol returns the column index of the cell.
func (cp CellPosition) GetCol() int {
	return cp.Col
}

// Step returns the position reached by moving n unit steps in direction d.
func (cp CellPosition) Step(d Direction, n int) CellPosition {
	delta := d.Delta()
	return CellPosition{Row: cp.Row + n*delta.Row, Col: cp.Col + n*delta.Col}
}

func (cp CellPosition) String() string {
	return fmt.Sprintf("(%d,%d)", cp.Row, cp.Col)
}

// Direction is one of the four orthogonal unit moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

var (
	// Directions lists every valid direction in BFS neighbour order.
	Directions = [...]Direction{Up, Down, Left, Right}

	directionDeltas = map[Direction]CellPosition{
		Up:    {Row: -1, Col: 0},
		Down:  {Row: 1, Col: 0},
		Left:  {Row: 0, Col: -1},
		Right: {Row: 0, Col: 1},
	}

	directionNames = map[Direction]string{
		Up:    "UP",
		Down:  "DOWN",
		Left:  "LEFT",
		Right: "RIGHT",
	}
)

// Valid reports whether d is one of the four unit directions.
func (d Direction) Valid() bool {
	_, ok := directionDeltas[d]
	return ok
}

// Delta returns the row/column offset of a single step in direction d.
// Invalid directions have a zero delta.
func (d Direction) Delta() CellPosition {
	return directionDeltas[d]
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection maps a direction name to a Direction. It accepts the canonical
// names (UP, DOWN, LEFT, RIGHT) in any case, and the browser key names
// (ArrowUp, ArrowDown, ArrowLeft, ArrowRight) used by keyboard clients.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ARROW")
	for d, n := range directionNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
