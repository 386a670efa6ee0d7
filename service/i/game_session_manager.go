package i

import (
	"github.com/beka-birhanu/vinom-solo/game"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/google/uuid"
)

// GameSessionManager manages single-player game sessions.
type GameSessionManager interface {
	// NewSession starts a new game and returns its ID with the initial state.
	NewSession() (uuid.UUID, game.Snapshot, error)

	// Move forwards a move intent to the session and returns the outcome
	// together with the state right after it.
	Move(uuid.UUID, maze.Direction) (game.MoveResult, game.Snapshot, error)

	// Restart regenerates the session's maze and returns the fresh state.
	Restart(uuid.UUID) (game.Snapshot, error)

	// State returns the current state of the session.
	State(uuid.UUID) (game.Snapshot, error)

	// Remove ends the session.
	Remove(uuid.UUID) error
}
