// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area - circle positions are drawn uniformly from [0, PlayAreaSize) on both axes.
const (
	PlayAreaSize = 375.0
	CircleRadius = 14.0 // Logical radius used for drawing and hit-testing
)

// Round rules
const (
	DefaultMaxPoints = 1000                    // Ceiling for the configurable point count
	TickInterval     = 100 * time.Millisecond  // Elapsed-time step
	RemovalDelay     = 1500 * time.Millisecond // Visual confirmation before a clicked circle disappears
)

// View resolution - the play area plus a margin so circles near the edge stay whole.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = PlayAreaSize + 2*CircleRadius
	ViewHeight = PlayAreaSize + 2*CircleRadius
)

// Terminal layout
const (
	HeaderRows    = 3   // Status, fields and toast rows above the canvas
	FooterRows    = 1   // Controls hint / players row below the canvas
	MaxTermWidth  = 160 // Max terminal columns used for rendering
	MaxTermHeight = 60  // Max terminal rows used for rendering
)

// Keyboard cursor
const (
	CursorSpeed = 220.0 // Logical units per second while an arrow key is held
)

// Feedback
const (
	ToastSeconds      = 2.5 // How long a notification stays on screen
	BurstParticles    = 14  // Particles spawned on a correct click
	BurstSpeed        = 60.0
	BurstLifetime     = 0.6 // Seconds
	ClickedBlinkHz    = 6.0 // Blink frequency of a clicked circle while it waits for removal
	ButtonLabelPlay   = "[ Play ]"
	ButtonLabelReplay = "[ Restart ]"
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Web sessions
const (
	WSReadLimit    = 1 << 16
	WSPongWait     = 60 * time.Second
	WSPingInterval = 25 * time.Second
	WSWriteWait    = 10 * time.Second
	WSInboxSize    = 64
)
