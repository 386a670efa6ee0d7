package maze

import "fmt"

// Unreachable marks cells in a distance map that the search never reached.
const Unreachable = -1

// Distance is a cell together with its shortest path length from the search start.
type Distance struct {
	Pos  CellPosition
	Dist int
}

// FindFarthest returns the path cell with the greatest breadth-first distance from
// start. Among cells tied for the maximum it picks the one with the largest row,
// then the smallest column, so the result is always the bottom-left candidate.
// An isolated start is its own farthest cell at distance 0.
func FindFarthest(g *Grid, start CellPosition) (Distance, error) {
	var farthest []Distance
	err := walk(g, start, func(d Distance) {
		switch {
		case len(farthest) == 0 || d.Dist > farthest[0].Dist:
			farthest = append(farthest[:0], d)
		case d.Dist == farthest[0].Dist:
			farthest = append(farthest, d)
		}
	})
	if err != nil {
		return Distance{}, err
	}

	best := farthest[0]
	for _, d := range farthest[1:] {
		if d.Pos.Row > best.Pos.Row || (d.Pos.Row == best.Pos.Row && d.Pos.Col < best.Pos.Col) {
			best = d
		}
	}
	return best, nil
}

// Distances returns the breadth-first distance from start for every cell of the
// grid. Walls and cells cut off from start hold Unreachable.
func Distances(g *Grid, start CellPosition) ([][]int, error) {
	dist := make([][]int, g.height)
	for r := range dist {
		dist[r] = make([]int, g.width)
		for c := range dist[r] {
			dist[r][c] = Unreachable
		}
	}

	err := walk(g, start, func(d Distance) {
		dist[d.Pos.Row][d.Pos.Col] = d.Dist
	})
	if err != nil {
		return nil, err
	}
	return dist, nil
}

// walk runs a FIFO breadth-first search over 4-connected path cells and calls
// visit for every dequeued cell, in non-decreasing distance order.
func walk(g *Grid, start CellPosition, visit func(Distance)) error {
	if !g.IsPath(start) {
		return fmt.Errorf("%w: %v", ErrInvalidStart, start)
	}

	visited := make([][]bool, g.height)
	for r := range visited {
		visited[r] = make([]bool, g.width)
	}

	queue := []Distance{{Pos: start, Dist: 0}}
	visited[start.Row][start.Col] = true

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		visit(current)

		for _, dir := range Directions {
			next := current.Pos.Step(dir, 1)
			if !g.IsPath(next) || visited[next.Row][next.Col] {
				continue
			}
			visited[next.Row][next.Col] = true
			queue = append(queue, Distance{Pos: next, Dist: current.Dist + 1})
		}
	}

	return nil
}
