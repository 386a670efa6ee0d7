package gameapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-solo/api/identity"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/beka-birhanu/vinom-solo/service"
	"github.com/beka-birhanu/vinom-solo/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultTokenTTL = 24 * time.Hour

// GameController serves game sessions.
type GameController struct {
	gameSessionManager i.GameSessionManager
	tokenizer          i.Tokenizer
	tokenTTL           time.Duration
	upgrader           websocket.Upgrader
	logger             i.Logger
}

// NewGameController initializes a GameController. A non-positive tokenTTL uses
// the default of one day.
func NewGameController(gsm i.GameSessionManager, t i.Tokenizer, tokenTTL time.Duration, logger i.Logger) (*GameController, error) {
	if gsm == nil || t == nil || logger == nil {
		return nil, errors.New("game controller requires a session manager, a tokenizer and a logger")
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	return &GameController{
		gameSessionManager: gsm,
		tokenizer:          t,
		tokenTTL:           tokenTTL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}, nil
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {
	games := route.Group("/games")
	{
		games.POST("", gc.newGame)
	}
}

// RegisterProtected registers routes that need the session's token.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	game := route.Group("/games/:ID")
	{
		game.GET("", gc.state)
		game.DELETE("", gc.remove)
		game.GET("/render", gc.render)
		game.POST("/moves", gc.move)
		game.POST("/restart", gc.restart)
		game.GET("/ws", gc.play)
	}
}

// newGame starts a session and hands out the token that controls it.
func (gc *GameController) newGame(ctx *gin.Context) {
	id, state, err := gc.gameSessionManager.NewSession()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while creating game"})
		return
	}

	token, err := gc.tokenizer.Generate(map[string]interface{}{
		identity.SessionIDClaim: id.String(),
	}, gc.tokenTTL)
	if err != nil {
		gc.logger.Error(fmt.Sprintf("signing token for game %s: %s", id, err))
		_ = gc.gameSessionManager.Remove(id)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while creating game"})
		return
	}

	ctx.JSON(http.StatusCreated, &NewGameResponse{
		ID:    id.String(),
		Token: token,
		State: newStateResponse(state),
	})
}

// state returns the full session state.
func (gc *GameController) state(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	state, err := gc.gameSessionManager.State(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newStateResponse(state))
}

// render returns the session drawn as text.
func (gc *GameController) render(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	state, err := gc.gameSessionManager.State(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.String(http.StatusOK, maze.RenderGame(state.Grid, state.PlayerPos, state.Goal))
}

// move applies a single move intent.
func (gc *GameController) move(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dir, err := maze.ParseDirection(request.Direction)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, state, err := gc.gameSessionManager.Move(id, dir)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &MoveResponse{
		Applied: result.Applied,
		Won:     result.Won,
		State:   newStateResponse(state),
	})
}

// restart regenerates the session's maze.
func (gc *GameController) restart(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	state, err := gc.gameSessionManager.Restart(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newStateResponse(state))
}

// remove ends the session.
func (gc *GameController) remove(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}

	if err := gc.gameSessionManager.Remove(id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// sessionID parses the session ID route parameter, answering 400 when it is malformed.
func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses.
func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while processing game"})
}
