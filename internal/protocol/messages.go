package protocol

import "github.com/tomz197/circles/internal/game"

// Version is sent in Hello so pages can detect an incompatible server.
const Version = 1

// Message types.
const (
	// Client -> server
	MsgPoints = "points"
	MsgStart  = "start"
	MsgClick  = "click"

	// Server -> client
	MsgHello    = "hello"
	MsgState    = "state"
	MsgNotice   = "notice"
	MsgShutdown = "shutdown"
)

// Points carries the raw text of the points field.
type Points struct {
	Text string `json:"text"`
}

// Start requests a new round. It has no fields.
type Start struct{}

// Click reports a click on the circle with the given id.
type Click struct {
	ID int `json:"id"`
}

// Hello is the first frame a session sends.
type Hello struct {
	V         int `json:"v"`
	MaxPoints int `json:"maxPoints"`
}

// State is the full board, sent after every change.
type State = game.View

// Notice is a controller notification for the page's toast area.
type Notice struct {
	Kind    game.EventKind `json:"kind"`
	Level   game.Level     `json:"level"`
	Message string         `json:"message"`
}

// Shutdown tells the page the server is going away.
type Shutdown struct{}

// NoticeFromEvent converts a controller event.
func NoticeFromEvent(ev game.Event) Notice {
	return Notice{Kind: ev.Kind, Level: ev.Level, Message: ev.Message}
}
