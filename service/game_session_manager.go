package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-solo/game"
	"github.com/beka-birhanu/vinom-solo/maze"
	"github.com/beka-birhanu/vinom-solo/service/i"
	"github.com/google/uuid"
)

const (
	defaultMazeWidth  = 13
	defaultMazeHeight = 9
	defaultSessionTTL = 30 * time.Minute
	defaultSweepEvery = time.Minute
)

var (
	ErrSessionNotFound = errors.New("no such game session")
)

var _ i.GameSessionManager = &GameSessionManager{}

type sessionEntry struct {
	session  *game.Session
	lastSeen time.Time
}

// GameSessionManager keeps every running game session in memory.
type GameSessionManager struct {
	sessions    map[uuid.UUID]*sessionEntry
	mazeFactory game.MazeFactory
	width       int
	height      int
	ttl         time.Duration
	now         func() time.Time
	logger      i.Logger
	sync.RWMutex
}

// Config holds the dependencies of a GameSessionManager.
type Config struct {
	MazeFactory game.MazeFactory // Defaults to maze.New.
	Width       int              // Maze width, odd and at least 3.
	Height      int              // Maze height, odd and at least 3.
	TTL         time.Duration    // Idle time after which Sweep evicts a session.
	Clock       func() time.Time // Defaults to time.Now.
	Logger      i.Logger
}

// NewGameSessionManager creates a manager. Zero values in c fall back to defaults.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c == nil || c.Logger == nil {
		return nil, errors.New("game session manager requires a logger")
	}

	gsm := &GameSessionManager{
		sessions:    make(map[uuid.UUID]*sessionEntry),
		mazeFactory: c.MazeFactory,
		width:       c.Width,
		height:      c.Height,
		ttl:         c.TTL,
		now:         c.Clock,
		logger:      c.Logger,
	}
	if gsm.mazeFactory == nil {
		gsm.mazeFactory = maze.New
	}
	if gsm.width == 0 {
		gsm.width = defaultMazeWidth
	}
	if gsm.height == 0 {
		gsm.height = defaultMazeHeight
	}
	if gsm.ttl <= 0 {
		gsm.ttl = defaultSessionTTL
	}
	if gsm.now == nil {
		gsm.now = time.Now
	}
	return gsm, nil
}

// NewSession starts a new game and registers it under a fresh ID.
func (g *GameSessionManager) NewSession() (uuid.UUID, game.Snapshot, error) {
	session, err := game.NewSession(g.mazeFactory, g.width, g.height)
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating game session: %s", err))
		return uuid.Nil, game.Snapshot{}, err
	}

	sessionID := g.saveSession(session)
	state := session.State()
	g.logger.Info(fmt.Sprintf("started new game %s: goal %v at distance %d", sessionID, state.Goal, state.GoalDist))
	return sessionID, state, nil
}

// Move applies a move intent to the session.
func (g *GameSessionManager) Move(id uuid.UUID, dir maze.Direction) (game.MoveResult, game.Snapshot, error) {
	session, err := g.touch(id)
	if err != nil {
		return game.MoveResult{}, game.Snapshot{}, err
	}

	result := session.Move(dir)
	state := session.State()
	if result.Applied && result.Won {
		g.logger.Info(fmt.Sprintf("game %s won in %d moves (shortest %d)", id, state.Moves, state.GoalDist))
	}
	return result, state, nil
}

// Restart starts a new round in an existing session.
func (g *GameSessionManager) Restart(id uuid.UUID) (game.Snapshot, error) {
	session, err := g.touch(id)
	if err != nil {
		return game.Snapshot{}, err
	}

	if err := session.Reset(); err != nil {
		g.logger.Error(fmt.Sprintf("restarting game %s: %s", id, err))
		return game.Snapshot{}, err
	}

	g.logger.Info(fmt.Sprintf("restarted game %s", id))
	return session.State(), nil
}

// State returns the current state of the session.
func (g *GameSessionManager) State(id uuid.UUID) (game.Snapshot, error) {
	session, err := g.touch(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return session.State(), nil
}

// Remove drops the session.
func (g *GameSessionManager) Remove(id uuid.UUID) error {
	g.Lock()
	defer g.Unlock()
	if _, ok := g.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	delete(g.sessions, id)
	g.logger.Info(fmt.Sprintf("removed game %s", id))
	return nil
}

// Count returns the number of live sessions.
func (g *GameSessionManager) Count() int {
	g.RLock()
	defer g.RUnlock()
	return len(g.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many were removed.
func (g *GameSessionManager) Sweep() int {
	g.Lock()
	defer g.Unlock()

	cutoff := g.now().Add(-g.ttl)
	evicted := 0
	for id, entry := range g.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(g.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		g.logger.Info(fmt.Sprintf("evicted %d idle game sessions", evicted))
	}
	return evicted
}

// StartJanitor runs Sweep every interval until ctx is done. A non-positive
// interval sweeps once a minute.
func (g *GameSessionManager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepEvery
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sweep()
		}
	}
}

// StopAll drops every session.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	defer g.Unlock()

	g.logger.Info(fmt.Sprintf("stopping %d game sessions", len(g.sessions)))
	clear(g.sessions)
}

func (g *GameSessionManager) saveSession(session *game.Session) uuid.UUID {
	g.Lock()
	defer g.Unlock()

	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	g.sessions[sessionID] = &sessionEntry{session: session, lastSeen: g.now()}
	return sessionID
}

// touch looks the session up and marks it as recently used.
func (g *GameSessionManager) touch(id uuid.UUID) (*game.Session, error) {
	g.Lock()
	defer g.Unlock()
	entry, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	entry.lastSeen = g.now()
	return entry.session, nil
}
