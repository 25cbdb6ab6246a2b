package game

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
)

// Error taxonomy. Both leave the controller state unchanged.
var (
	ErrInvalidInput  = errors.New("invalid point count")
	ErrStartRejected = errors.New("start rejected")
)

// InputError describes a rejected point-count entry.
type InputError struct {
	Text   string
	Reason string
}

func (e *InputError) Error() string {
	return "invalid point count " + strconv.Quote(e.Text) + ": " + e.Reason
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// EventKind names a notification emitted by the controller.
type EventKind string

const (
	EventStarted       EventKind = "started"
	EventRestarted     EventKind = "restarted"
	EventAllCleared    EventKind = "all_cleared"
	EventGameOver      EventKind = "game_over"
	EventInvalidInput  EventKind = "invalid_input"
	EventStartRejected EventKind = "start_rejected"
)

// Level is the severity a front end uses to style a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is a fire-and-forget notification.
type Event struct {
	Kind    EventKind `json:"kind"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Round   uint64    `json:"round"`
}

// Notifier receives controller events. Implementations must not call back
// into the controller.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev Event)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev Event) {
	f(ev)
}

// Notifiers fans an event out to every non-nil notifier in order.
func Notifiers(ns ...Notifier) Notifier {
	return NotifierFunc(func(ev Event) {
		for _, n := range ns {
			if n != nil {
				n.Notify(ev)
			}
		}
	})
}

// LogNotifier records every event on logger at debug level.
func LogNotifier(logger *log.Logger) Notifier {
	return NotifierFunc(func(ev Event) {
		logger.Debug("game event", "kind", ev.Kind, "level", ev.Level, "round", ev.Round, "msg", ev.Message)
	})
}

var discardNotifier = NotifierFunc(func(Event) {})
