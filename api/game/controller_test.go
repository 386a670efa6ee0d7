package gameapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-solo/api"
	api_i "github.com/beka-birhanu/vinom-solo/api/i"
	"github.com/beka-birhanu/vinom-solo/api/identity"
	"github.com/beka-birhanu/vinom-solo/infrastruture/logger"
	"github.com/beka-birhanu/vinom-solo/infrastruture/token"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/beka-birhanu/vinom-solo/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridor has (1,2) walled off and (2,1) open; its goal is (1,3).
const corridor = `
	#####
	#.#.#
	#.#.#
	#...#
	#####`

type testServer struct {
	handler   http.Handler
	tokenizer *token.JwtService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gsm, err := service.NewGameSessionManager(&service.Config{
		MazeFactory: func(int, int) (*maze.Grid, error) { return maze.Parse(corridor) },
		Width:       5,
		Height:      5,
		Logger:      logger.Nop(),
	})
	require.NoError(t, err)

	tokenizer := token.NewJwtService("test-secret", "test-issuer")
	controller, err := NewGameController(gsm, tokenizer, time.Minute, logger.Nop())
	require.NoError(t, err)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{controller},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
		Logger:                  logger.Nop(),
	})
	return &testServer{handler: router.Handler(), tokenizer: tokenizer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) newGame(t *testing.T) NewGameResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/games", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp NewGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)

	_, err := uuid.Parse(game.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, game.Token)

	state := game.State
	assert.Equal(t, 5, state.Width)
	assert.Equal(t, 5, state.Height)
	assert.Equal(t, []int{1, 0, 1, 0, 1}, state.Grid[1])
	assert.Equal(t, CellResponse{Row: 1, Col: 1}, state.Player)
	assert.Equal(t, CellResponse{Row: 1, Col: 3}, state.Goal)
	assert.Equal(t, 6, state.GoalDist)
	assert.Equal(t, "PLAYING", state.Status)
	assert.False(t, state.Won)

	claims, err := s.tokenizer.Decode(game.Token)
	require.NoError(t, err)
	assert.Equal(t, game.ID, claims[identity.SessionIDClaim])
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)
	other := s.newGame(t)
	path := "/api/v1/games/" + game.ID

	t.Run("Missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, "", nil).Code)
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Token "+game.Token)
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, "not-a-jwt", nil).Code)
	})

	t.Run("Token of another session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, other.Token, nil).Code)
	})

	t.Run("Token in query string", func(t *testing.T) {
		w := s.do(t, http.MethodGet, path+"?token="+game.Token, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Own token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, game.Token, nil).Code)
	})
}

func TestMoveFlow(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)
	movePath := "/api/v1/games/" + game.ID + "/moves"

	w := s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: "RIGHT"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MoveResponse](t, w)
	assert.False(t, resp.Applied)
	assert.Equal(t, CellResponse{Row: 1, Col: 1}, resp.State.Player)

	w = s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: "down"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[MoveResponse](t, w)
	assert.True(t, resp.Applied)
	assert.Equal(t, CellResponse{Row: 2, Col: 1}, resp.State.Player)

	for _, dir := range []string{"ArrowDown", "ArrowRight", "ArrowRight", "ArrowUp"} {
		w = s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: dir})
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, decode[MoveResponse](t, w).Applied, dir)
	}

	w = s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: "UP"})
	resp = decode[MoveResponse](t, w)
	assert.True(t, resp.Applied)
	assert.True(t, resp.Won)
	assert.Equal(t, "WON", resp.State.Status)
	assert.Equal(t, 6, resp.State.Moves)

	w = s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: "DOWN"})
	resp = decode[MoveResponse](t, w)
	assert.False(t, resp.Applied)
	assert.True(t, resp.Won)
	assert.Equal(t, CellResponse{Row: 1, Col: 3}, resp.State.Player)

	w = s.do(t, http.MethodPost, "/api/v1/games/"+game.ID+"/restart", game.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[StateResponse](t, w)
	assert.False(t, state.Won)
	assert.Zero(t, state.Moves)
	assert.Equal(t, CellResponse{Row: 1, Col: 1}, state.Player)
}

func TestMoveValidation(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)
	movePath := "/api/v1/games/" + game.ID + "/moves"

	w := s.do(t, http.MethodPost, movePath, game.Token, MoveRequest{Direction: "NORTH-WEST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, movePath, game.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)

	w := s.do(t, http.MethodGet, "/api/v1/games/"+game.ID+"/render", game.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#####\n#@#G#\n#.#.#\n#...#\n#####\n", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
}

func TestRemove(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)
	path := "/api/v1/games/" + game.ID

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, game.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, game.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, game.Token, nil).Code)
}

func TestMalformedGameID(t *testing.T) {
	s := newTestServer(t)
	tok, err := s.tokenizer.Generate(map[string]interface{}{identity.SessionIDClaim: "not-a-uuid"}, time.Minute)
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/v1/games/not-a-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayOverWebsocket(t *testing.T) {
	s := newTestServer(t)
	game := s.newGame(t)

	srv := httptest.NewServer(s.handler)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/" + game.ID + "/ws"

	t.Run("Rejects handshakes without a token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Streams state after every message", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+game.Token, nil)
		require.NoError(t, err)
		defer conn.Close()

		var reply PlayReply
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageState, reply.Type)
		require.NotNil(t, reply.State)
		assert.Equal(t, CellResponse{Row: 1, Col: 1}, reply.State.Player)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: messageMove, Direction: "RIGHT"}))
		require.NoError(t, conn.ReadJSON(&reply))
		require.NotNil(t, reply.Applied)
		assert.False(t, *reply.Applied)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: messageMove, Direction: "DOWN"}))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		require.NotNil(t, reply.Applied)
		assert.True(t, *reply.Applied)
		assert.Equal(t, CellResponse{Row: 2, Col: 1}, reply.State.Player)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: messageMove, Direction: "sideways"}))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageError, reply.Type)
		assert.NotEmpty(t, reply.Error)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageError, reply.Type)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: "dance"}))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageError, reply.Type)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: messageRestart}))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageRestart, reply.Type)
		assert.Equal(t, CellResponse{Row: 1, Col: 1}, reply.State.Player)
		assert.Nil(t, reply.Applied)
	})

	t.Run("Closes once the session is gone", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+game.Token, nil)
		require.NoError(t, err)
		defer conn.Close()

		var reply PlayReply
		require.NoError(t, conn.ReadJSON(&reply))

		require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/games/"+game.ID, game.Token, nil).Code)

		require.NoError(t, conn.WriteJSON(PlayMessage{Type: messageState}))
		reply = PlayReply{}
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Equal(t, messageError, reply.Type)

		_, _, err = conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	})
}
