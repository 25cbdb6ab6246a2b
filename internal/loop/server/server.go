// Package server is the hub shared by every play session in one process.
// Each session owns its own game controller; the hub only tracks who is
// connected, keeps a small leaderboard of cleared rounds and broadcasts
// shutdown notices.
package server

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/circles/internal/game"
)

// GameServer is the interface sessions use to communicate with the hub.
// Decouples terminal and web sessions from the concrete Server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	RecordOutcome(clientID int, result RoundResult)
	Snapshot() Snapshot
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a session's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the session (shutdown, etc.)
}

// ClientEvent represents an event sent from the hub to a session.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// RoundResult is what a session reports when one of its rounds ends.
type RoundResult struct {
	Outcome game.Outcome
	Points  int
	Elapsed time.Duration
}

// TopClearEntry is a single leaderboard row.
type TopClearEntry struct {
	Username string
	Points   int
	Elapsed  time.Duration
	clientID int // Deterministic tie-break when points and time are equal
}

// Snapshot is an immutable view of hub statistics.
type Snapshot struct {
	Players   int
	Rounds    int
	Cleared   int
	GameOvers int
	TopClears []TopClearEntry
}

// maxTopClears is the leaderboard length.
const maxTopClears = 5

// Server tracks sessions and aggregates their results.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	shutdown     bool
	logger       *log.Logger

	rounds    int
	cleared   int
	gameOvers int
	topClears []TopClearEntry
}

// NewServer creates a new hub. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		logger:       logger,
	}
}

// RegisterClient registers a new session with the given username and returns its handle.
// Sessions that join while the hub is shutting down receive the shutdown event at once.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	if s.shutdown {
		handle.EventsCh <- ClientEvent{Type: EventServerShutdown}
	}

	s.logger.Debug("session registered", "id", handle.ID, "user", username, "players", len(s.clients))
	return handle
}

// UnregisterClient removes a session from the hub and closes its event channel.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.logger.Debug("session unregistered", "id", clientID, "players", len(s.clients))
}

// RecordOutcome folds a finished round into the hub statistics.
// Rounds still in progress are ignored.
func (s *Server) RecordOutcome(clientID int, result RoundResult) {
	if !result.Outcome.Terminal() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds++
	if result.Outcome == game.OutcomeGameOver {
		s.gameOvers++
		return
	}
	s.cleared++

	username := ""
	if handle, ok := s.clients[clientID]; ok {
		username = handle.Username
	}
	s.topClears = append(s.topClears, TopClearEntry{
		Username: username,
		Points:   result.Points,
		Elapsed:  result.Elapsed,
		clientID: clientID,
	})
	slices.SortStableFunc(s.topClears, compareClears)
	if len(s.topClears) > maxTopClears {
		s.topClears = s.topClears[:maxTopClears]
	}
}

// compareClears ranks bigger rounds first, then faster clears.
func compareClears(a, b TopClearEntry) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if a.Elapsed != b.Elapsed {
		if a.Elapsed < b.Elapsed {
			return -1
		}
		return 1
	}
	return a.clientID - b.clientID
}

// Snapshot returns the current hub statistics.
func (s *Server) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Players:   len(s.clients),
		Rounds:    s.rounds,
		Cleared:   s.cleared,
		GameOvers: s.gameOvers,
		TopClears: slices.Clone(s.topClears),
	}
}

// Shutdown notifies all connected sessions about the shutdown and waits for
// them to disconnect (up to the given timeout).
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.shutdown = true
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mu.RLock()
		remaining := len(s.clients)
		s.mu.RUnlock()
		if remaining == 0 {
			return
		}

		select {
		case <-deadline:
			s.logger.Warn("shutdown deadline reached", "remaining", remaining)
			return
		case <-ticker.C:
		}
	}
}
