package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/vinom-solo/maze"
)

// Session-related errors.
var (
	ErrNilMazeFactory = errors.New("maze factory is required")
)

// Status is the lifecycle state of a session.
type Status uint8

const (
	Playing Status = iota // Moves are accepted.
	Won                   // The goal was reached; moves are ignored until Reset.
)

func (s Status) String() string {
	if s == Won {
		return "WON"
	}
	return "PLAYING"
}

// Start is the fixed cell every session places the player on.
var Start = maze.Origin

// MazeFactory builds the maze for a new round.
type MazeFactory func(width, height int) (*maze.Grid, error)

// MoveResult reports the outcome of a single move request.
type MoveResult struct {
	Applied bool // Applied is false for walls, out of bounds cells and finished games.
	Won     bool // Won is the session status after the request.
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Grid      *maze.Grid        // Grid is a private copy; mutating it does not affect the session.
	Goal      maze.CellPosition // Goal is the farthest cell from Start.
	GoalDist  int               // GoalDist is the shortest path length from Start to Goal.
	PlayerPos maze.CellPosition // PlayerPos is the current player cell.
	Status    Status            // Status is Playing or Won.
	Moves     int               // Moves counts applied moves since the last reset.
}

// Won reports whether the snapshot was taken after the goal was reached.
func (s Snapshot) Won() bool {
	return s.Status == Won
}

// Session holds one player's maze, goal and position.
// Every exported method is atomic with respect to the others.
type Session struct {
	mazeFactory MazeFactory
	width       int
	height      int

	grid      *maze.Grid
	goal      maze.Distance
	playerPos maze.CellPosition
	status    Status
	moves     int

	sync.RWMutex // Read-Write lock for synchronizing access.
}

// NewSession creates a session of the given maze dimensions and starts its first round.
func NewSession(factory MazeFactory, width, height int) (*Session, error) {
	if factory == nil {
		return nil, ErrNilMazeFactory
	}

	s := &Session{
		mazeFactory: factory,
		width:       width,
		height:      height,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset generates a new maze, picks the farthest cell from Start as the goal and
// puts the player back on Start. On error the previous round is left untouched.
func (s *Session) Reset() error {
	grid, err := s.mazeFactory(s.width, s.height)
	if err != nil {
		return fmt.Errorf("creating maze: %w", err)
	}

	goal, err := maze.FindFarthest(grid, Start)
	if err != nil {
		return fmt.Errorf("finding goal: %w", err)
	}

	s.Lock()
	defer s.Unlock()
	s.grid = grid
	s.goal = goal
	s.playerPos = Start
	s.status = Playing
	s.moves = 0
	return nil
}

// Move steps the player one cell in direction dir. The move is applied only when
// the target cell is inside the maze and open; anything else, including any move
// after the goal was reached, leaves the session unchanged.
func (s *Session) Move(dir maze.Direction) MoveResult {
	s.Lock()
	defer s.Unlock()

	if s.status == Won || !dir.Valid() {
		return MoveResult{Applied: false, Won: s.status == Won}
	}

	candidate := s.playerPos.Step(dir, 1)
	if !s.grid.IsPath(candidate) {
		return MoveResult{Applied: false, Won: false}
	}

	s.playerPos = candidate
	s.moves++
	if candidate == s.goal.Pos {
		s.status = Won
	}
	return MoveResult{Applied: true, Won: s.status == Won}
}

// State returns a snapshot of the current round.
func (s *Session) State() Snapshot {
	s.RLock()
	defer s.RUnlock()

	return Snapshot{
		Grid:      s.grid.Clone(),
		Goal:      s.goal.Pos,
		GoalDist:  s.goal.Dist,
		PlayerPos: s.playerPos,
		Status:    s.status,
		Moves:     s.moves,
	}
}
