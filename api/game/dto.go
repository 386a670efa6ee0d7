// Package gameapi exposes game sessions over HTTP and websockets.
package gameapi

import (
	"github.com/beka-birhanu/vinom-solo/game"
	"github.com/beka-birhanu/vinom-solo/maze"
)

// Grid encoding used in responses.
const (
	pathCell = 0
	wallCell = 1
)

// Play message types understood by the websocket channel.
const (
	messageMove    = "move"
	messageRestart = "restart"
	messageState   = "state"
	messageError   = "error"
)

// MoveRequest represents a request to move the player one cell.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// CellResponse is a grid coordinate.
type CellResponse struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// StateResponse is the full state of a session, enough to redraw it from scratch.
type StateResponse struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Grid     [][]int      `json:"grid"` // 1 for walls, 0 for paths
	Goal     CellResponse `json:"goal"`
	GoalDist int          `json:"goal_distance"`
	Player   CellResponse `json:"player"`
	Status   string       `json:"status"`
	Won      bool         `json:"won"`
	Moves    int          `json:"moves"`
}

// NewGameResponse is returned when a session is created.
type NewGameResponse struct {
	ID    string        `json:"id"`
	Token string        `json:"token"`
	State StateResponse `json:"state"`
}

// MoveResponse reports whether a move was applied and the resulting state.
type MoveResponse struct {
	Applied bool          `json:"applied"`
	Won     bool          `json:"won"`
	State   StateResponse `json:"state"`
}

// PlayMessage is a client intent sent over the websocket channel.
type PlayMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// PlayReply is sent back after every PlayMessage.
type PlayReply struct {
	Type    string         `json:"type"`
	Applied *bool          `json:"applied,omitempty"`
	State   *StateResponse `json:"state,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func newCellResponse(pos maze.CellPosition) CellResponse {
	return CellResponse{Row: pos.Row, Col: pos.Col}
}

func newStateResponse(s game.Snapshot) StateResponse {
	rows := s.Grid.Rows()
	grid := make([][]int, len(rows))
	for r, row := range rows {
		grid[r] = make([]int, len(row))
		for c, cell := range row {
			if cell == maze.Path {
				grid[r][c] = pathCell
			} else {
				grid[r][c] = wallCell
			}
		}
	}

	return StateResponse{
		Width:    s.Grid.Width(),
		Height:   s.Grid.Height(),
		Grid:     grid,
		Goal:     newCellResponse(s.Goal),
		GoalDist: s.GoalDist,
		Player:   newCellResponse(s.PlayerPos),
		Status:   s.Status.String(),
		Won:      s.Won(),
		Moves:    s.Moves,
	}
}
