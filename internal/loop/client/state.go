package client

import (
	"time"

	"github.com/tomz197/circles/internal/object"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStatePlaying  GameState = iota // Board, header and footer
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-session presentation state. The round itself lives
// in the game controller.
type ClientState struct {
	Input         object.Input
	GameState     GameState     // This client's screen
	PointsText    string        // Contents of the points field
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the inactivity warning is shown
	wasInactive   bool
	prevGameState GameState

	clickedAt     map[int]time.Time // When each shown circle of this round was clicked
	clickedRound  uint64            // Round clickedAt belongs to
	reportedRound uint64            // Last round whose outcome went to the hub
	buttonCol     int               // Start button hit box (absolute, 1-based)
	buttonRow     int
	buttonWidth   int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStatePlaying,
		Running:   true,
		clickedAt: make(map[int]time.Time),
	}
}
