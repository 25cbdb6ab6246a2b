package game

import (
	"strconv"
	"time"
)

// View is a read-only snapshot of a controller for presentation layers.
type View struct {
	TargetCount int           `json:"targetCount"`
	MaxPoints   int           `json:"maxPoints"`
	Elapsed     time.Duration `json:"-"`
	ElapsedText string        `json:"elapsed"`
	Outcome     Outcome       `json:"outcome"`
	Started     bool          `json:"started"`
	NextID      int           `json:"nextId"`
	Round       uint64        `json:"round"`
	Circles     []Circle      `json:"circles"`
}

// View captures the current state.
func (c *Controller) View() View {
	elapsed := c.Elapsed()
	return View{
		TargetCount: c.targetCount,
		MaxPoints:   c.maxPoints,
		Elapsed:     elapsed,
		ElapsedText: FormatElapsed(elapsed),
		Outcome:     c.round.outcome,
		Started:     c.started,
		NextID:      c.NextExpectedID(),
		Round:       c.round.generation,
		Circles:     c.Circles(),
	}
}

// Headline is the status text shown above the board.
func (v View) Headline() string {
	switch v.Outcome {
	case OutcomeGameOver:
		return "GAME OVER"
	case OutcomeAllCleared:
		return "ALL CLEARED"
	default:
		return "LET'S PLAY"
	}
}

// ButtonLabel is the caption of the start control.
func (v View) ButtonLabel() string {
	if v.Started {
		return "Restart"
	}
	return "Play"
}

// FormatElapsed renders a duration as seconds with one decimal.
func FormatElapsed(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64)
}
