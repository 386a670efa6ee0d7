package gameapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-solo/game"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/beka-birhanu/vinom-solo/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 512
	writeWait      = 5 * time.Second
)

// play upgrades the request to a websocket and serves play messages until the
// client leaves. Every reply carries the full state so clients can simply redraw.
func (gc *GameController) play(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	if _, err := gc.gameSessionManager.State(id); err != nil {
		respondError(ctx, err)
		return
	}

	conn, err := gc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		gc.logger.Warning(fmt.Sprintf("upgrading game %s to websocket: %s", id, err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	reply, open := gc.handleMessage(id, PlayMessage{Type: messageState})
	for {
		if err := gc.writeReply(conn, reply); err != nil {
			gc.logger.Warning(fmt.Sprintf("writing to game %s websocket: %s", id, err))
			return
		}
		if !open {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reply.Error),
				time.Now().Add(writeWait))
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				gc.logger.Warning(fmt.Sprintf("reading from game %s websocket: %s", id, err))
			}
			return
		}

		var msg PlayMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply, open = PlayReply{Type: messageError, Error: "malformed message"}, true
			continue
		}
		reply, open = gc.handleMessage(id, msg)
	}
}

// handleMessage runs one play message against the session. The returned flag is
// false once the session is gone and the connection should be closed.
func (gc *GameController) handleMessage(id uuid.UUID, msg PlayMessage) (PlayReply, bool) {
	var (
		state   game.Snapshot
		applied *bool
		err     error
	)

	switch msg.Type {
	case messageMove:
		dir, parseErr := maze.ParseDirection(msg.Direction)
		if parseErr != nil {
			return PlayReply{Type: messageError, Error: parseErr.Error()}, true
		}
		var result game.MoveResult
		result, state, err = gc.gameSessionManager.Move(id, dir)
		applied = &result.Applied
	case messageRestart:
		state, err = gc.gameSessionManager.Restart(id)
	case messageState:
		state, err = gc.gameSessionManager.State(id)
	default:
		return PlayReply{Type: messageError, Error: fmt.Sprintf("unknown message type %q", msg.Type)}, true
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return PlayReply{Type: messageError, Error: "no such game"}, false
	case err != nil:
		return PlayReply{Type: messageError, Error: "error while processing game"}, true
	}

	resp := newStateResponse(state)
	return PlayReply{Type: msg.Type, Applied: applied, State: &resp}, true
}

func (gc *GameController) writeReply(conn *websocket.Conn, reply PlayReply) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(reply)
}
