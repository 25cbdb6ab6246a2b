// Package game implements the ordered-click round: circle generation,
// click-order validation, elapsed-time ticking and outcome classification.
package game

import (
	"fmt"
	"slices"
	"strings"
)

// Position is a circle's location inside the play area.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Circle is one clickable target of a round.
type Circle struct {
	ID       int      `json:"id"`
	Position Position `json:"position"`
	Clicked  bool     `json:"clicked"`
}

// Outcome classifies a round.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeAllCleared
	OutcomeGameOver
)

var outcomeNames = [...]string{
	OutcomeInProgress: "IN_PROGRESS",
	OutcomeAllCleared: "ALL_CLEARED",
	OutcomeGameOver:   "GAME_OVER",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "UNKNOWN"
	}
	return outcomeNames[o]
}

// Terminal reports whether the round has ended.
func (o Outcome) Terminal() bool {
	return o == OutcomeAllCleared || o == OutcomeGameOver
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	i := slices.Index(outcomeNames[:], strings.ToUpper(string(text)))
	if i < 0 {
		return fmt.Errorf("game: unknown outcome %q", text)
	}
	*o = Outcome(i)
	return nil
}

// round is the live state of one play session. It is replaced wholesale on
// every start, so nothing carries across rounds.
type round struct {
	generation uint64
	size       int
	circles    []Circle // sorted by id, removed circles are dropped
	nextID     int
	ticks      int
	outcome    Outcome
}

// find returns the slice index of the circle with the given id.
func (r *round) find(id int) (int, bool) {
	return slices.BinarySearchFunc(r.circles, id, func(c Circle, id int) int {
		return c.ID - id
	})
}

// allClicked reports whether every tracked circle is clicked.
// An empty set is never considered cleared.
func (r *round) allClicked() bool {
	if len(r.circles) == 0 {
		return false
	}
	for _, c := range r.circles {
		if !c.Clicked {
			return false
		}
	}
	return true
}
