package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const minDimension = 3 // Smallest odd dimension holding one logical cell.

// Origin is the logical cell the carving walk starts from.
var Origin = CellPosition{Row: 1, Col: 1}

// carveFrame is one level of the backtracking walk: a carved cell and the
// directions it still has to try, in shuffled order.
type carveFrame struct {
	pos  CellPosition
	dirs [len(Directions)]Direction
	next int
}

// New generates a maze of the given dimensions using a time-seeded random source.
func New(width, height int) (*Grid, error) {
	seed := uint64(time.Now().UnixNano())
	return Generate(width, height, rand.New(rand.NewPCG(seed, seed>>1)))
}

// Generate carves a perfect maze into a width x height grid of walls with a
// randomized depth-first walk starting at Origin. Both dimensions must be odd and
// at least 3; even dimensions would leave the last row or column uncarved, so they
// are rejected with ErrInvalidDimensions.
//
// The walk keeps its own stack, so the depth is bounded by memory rather than by
// the goroutine stack. Each frame shuffles its directions when it is pushed, which
// consumes rng exactly like the recursive formulation would.
func Generate(width, height int, rng *rand.Rand) (*Grid, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("generating maze: nil random source")
	}

	g := newWallGrid(width, height)
	g.Set(Origin, Path)

	stack := make([]carveFrame, 0, logicalCells(width, height))
	stack = append(stack, newCarveFrame(Origin, rng))

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.dirs) {
			stack = stack[:len(stack)-1] // backtrack
			continue
		}

		dir := top.dirs[top.next]
		top.next++

		target := top.pos.Step(dir, 2)
		if !g.interior(target) || g.At(target) != Wall {
			continue
		}

		g.Set(top.pos.Step(dir, 1), Path)
		g.Set(target, Path)
		stack = append(stack, newCarveFrame(target, rng))
	}

	return g, nil
}

// newCarveFrame marks the start of a visit to pos with a uniform permutation of
// the four directions.
func newCarveFrame(pos CellPosition, rng *rand.Rand) carveFrame {
	f := carveFrame{pos: pos, dirs: Directions}
	rng.Shuffle(len(f.dirs), func(i, j int) {
		f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i]
	})
	return f
}

// interior reports whether pos lies strictly inside the outer border.
func (g *Grid) interior(pos CellPosition) bool {
	return pos.Row > 0 && pos.Row < g.height && pos.Col > 0 && pos.Col < g.width
}

func validateDimensions(width, height int) error {
	if width < minDimension || height < minDimension || width%2 == 0 || height%2 == 0 {
		return fmt.Errorf("%w: %dx%d, both must be odd and at least %d", ErrInvalidDimensions, width, height, minDimension)
	}
	return nil
}

// logicalCells returns the number of rooms in an odd width x height grid.
func logicalCells(width, height int) int {
	return ((width - 1) / 2) * ((height - 1) / 2)
}
