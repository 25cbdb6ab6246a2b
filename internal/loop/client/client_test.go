package client

import (
	"bufio"
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/input"
	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/loop/server"
	"github.com/tomz197/circles/internal/object"
	"github.com/tomz197/circles/internal/physics"
	"github.com/tomz197/circles/internal/sched"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, hub *server.Server) (*Client, *sched.ManualClock, *bytes.Buffer) {
	t.Helper()
	clock := sched.NewManualClock(epoch)
	var out bytes.Buffer
	c := NewClient(hub, bufio.NewReader(strings.NewReader("")), &out, ClientOptions{
		TermSizeFunc: fixedSize(120, 50),
		Username:     "tester",
		Clock:        clock,
		Rand:         rand.New(rand.NewSource(1)),
	})
	t.Cleanup(c.game.Close)
	return c, clock, &out
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		w, h                 int
		cw, ch, offCol, offRow int
	}{
		{120, 50, 88, 44, 16, 4},
		{20, 10, 8, 4, 6, 4},
		{400, 200, 120, 60, 140, 4},
	}
	for _, tt := range tests {
		got := computeLayout(tt.w, tt.h)
		if got.canvasWidth != tt.cw || got.canvasHeight != tt.ch || got.offsetCol != tt.offCol || got.offsetRow != tt.offRow {
			t.Errorf("computeLayout(%d,%d) = %+v", tt.w, tt.h, got)
		}
	}
}

func TestEditPoints(t *testing.T) {
	c, _, _ := newTestClient(t, server.NewServer(nil))

	c.editPoints(input.Input{Runes: []rune("12")})
	if c.state.PointsText != "12" || c.game.TargetCount() != 12 {
		t.Fatalf("Expected 12, got field %q target %d", c.state.PointsText, c.game.TargetCount())
	}

	c.editPoints(input.Input{Runes: []rune("a")})
	if c.state.PointsText != "12" {
		t.Errorf("Expected rejected rune to leave the field alone, got %q", c.state.PointsText)
	}
	if !c.toast.Active() || !strings.HasPrefix(c.toast.Message, "Points") {
		t.Errorf("Expected an invalid input toast, got %q", c.toast.Message)
	}

	c.editPoints(input.Input{Backspace: 1})
	if c.state.PointsText != "1" || c.game.TargetCount() != 1 {
		t.Errorf("Expected backspace to leave 1, got %q", c.state.PointsText)
	}

	c.editPoints(input.Input{Backspace: 3})
	if c.state.PointsText != "" || c.game.TargetCount() != 0 {
		t.Errorf("Expected empty field, got %q", c.state.PointsText)
	}
}

func TestEditPointsRespectsMax(t *testing.T) {
	c, _, _ := newTestClient(t, server.NewServer(nil))
	c.editPoints(input.Input{Runes: []rune("10000")})
	if c.state.PointsText != "1000" {
		t.Errorf("Expected field to stop at the maximum, got %q", c.state.PointsText)
	}
}

func TestStartRejectedWithoutPoints(t *testing.T) {
	c, _, _ := newTestClient(t, server.NewServer(nil))
	c.startRound()
	if c.game.Started() {
		t.Error("Expected start to be rejected")
	}
	if !c.toast.Active() {
		t.Error("Expected a toast for the rejected start")
	}
}

func TestPlayThroughReportsClear(t *testing.T) {
	hub := server.NewServer(nil)
	c, clock, _ := newTestClient(t, hub)

	c.editPoints(input.Input{Runes: []rune("3")})
	c.startRound()
	if len(c.discs) != 3 {
		t.Fatalf("Expected 3 discs, got %d", len(c.discs))
	}

	for id := 1; id <= 3; id++ {
		c.syncBoard()
		d := c.discs[0]
		if d.ID != id {
			t.Fatalf("Expected lowest remaining disc to be %d, got %d", id, d.ID)
		}
		c.clickAt(d.X, d.Y)
		if id < 3 {
			clock.Advance(config.RemovalDelay)
			c.sched.Poll()
		}
	}

	if c.game.Outcome() != game.OutcomeAllCleared {
		t.Fatalf("Expected ALL_CLEARED, got %v", c.game.Outcome())
	}
	if len(c.spawned) != 3*config.BurstParticles {
		t.Errorf("Expected a burst per correct click, got %d particles", len(c.spawned))
	}

	snap := hub.Snapshot()
	if snap.Cleared != 1 || len(snap.TopClears) != 1 {
		t.Fatalf("Expected one reported clear, got %+v", snap)
	}
	top := snap.TopClears[0]
	if top.Points != 3 || top.Elapsed != 3*time.Second || top.Username != "tester" {
		t.Errorf("Unexpected leaderboard row %+v", top)
	}

	// A second report for the same round is ignored.
	c.reportOutcome()
	if hub.Snapshot().Rounds != 1 {
		t.Error("Expected the round to be reported once")
	}
}

func TestMismatchReportsGameOver(t *testing.T) {
	hub := server.NewServer(nil)
	c, _, _ := newTestClient(t, hub)

	c.editPoints(input.Input{Runes: []rune("3")})
	c.startRound()
	c.game.Click(3)
	c.reportOutcome()

	if hub.Snapshot().GameOvers != 1 {
		t.Errorf("Expected a reported game over, got %+v", hub.Snapshot())
	}
}

func TestHitTestPicksLowestID(t *testing.T) {
	c := &Client{grid: physics.NewSpatialGrid(config.ViewWidth, config.ViewHeight, 2*config.CircleRadius)}
	c.discs = []*object.Disc{
		{ID: 4, X: 100, Y: 100, Radius: config.CircleRadius},
		{ID: 2, X: 110, Y: 100, Radius: config.CircleRadius},
		{ID: 7, X: 300, Y: 300, Radius: config.CircleRadius},
	}
	for i, d := range c.discs {
		c.grid.Insert(d.X, d.Y, d.Radius, i)
	}

	if i, ok := c.hitTest(105, 100); !ok || c.discs[i].ID != 2 {
		t.Errorf("Expected overlap to resolve to id 2, got index %d ok=%v", i, ok)
	}
	if i, ok := c.hitTest(88, 100); !ok || c.discs[i].ID != 4 {
		t.Errorf("Expected id 4 outside the overlap, got index %d ok=%v", i, ok)
	}
	if _, ok := c.hitTest(200, 200); ok {
		t.Error("Expected a miss on empty space")
	}
}

func TestButtonClickStartsRound(t *testing.T) {
	c, _, out := newTestClient(t, server.NewServer(nil))
	c.editPoints(input.Input{Runes: []rune("2")})

	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), config.ButtonLabelPlay) {
		t.Errorf("Expected the play button in the header")
	}

	c.handleClick(input.Click{Col: c.state.buttonCol, Row: c.state.buttonRow})
	if !c.game.Started() || len(c.game.Circles()) != 2 {
		t.Fatal("Expected the button to start a round")
	}

	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), config.ButtonLabelReplay) {
		t.Errorf("Expected the button to read Restart after starting")
	}
}

func TestBoardClickMovesCursor(t *testing.T) {
	c, _, _ := newTestClient(t, server.NewServer(nil))
	col := c.layout.offsetCol + 1
	row := c.layout.offsetRow + 1

	c.handleClick(input.Click{Col: col, Row: row})
	x, y, _ := c.canvas.TerminalToLogical(col, row)
	if c.cursor.X != x || c.cursor.Y != y {
		t.Errorf("Expected cursor at (%v,%v), got (%v,%v)", x, y, c.cursor.X, c.cursor.Y)
	}
}

func TestShutdownEvent(t *testing.T) {
	c, _, _ := newTestClient(t, server.NewServer(nil))
	c.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()

	if c.state.GameState != GameStateShutdown || c.state.shutdownTimer != config.ShutdownDisplaySeconds {
		t.Fatalf("Expected shutdown screen, got state %v timer %v", c.state.GameState, c.state.shutdownTimer)
	}

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	c.updateShutdownState()
	if c.state.Running {
		t.Error("Expected client to stop after the countdown")
	}
}

func TestRunQuits(t *testing.T) {
	hub := server.NewServer(nil)
	var out bytes.Buffer
	c := NewClient(hub, bufio.NewReader(strings.NewReader("5q")), &out, ClientOptions{
		TermSizeFunc: fixedSize(100, 40),
	})

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}

	if hub.Snapshot().Players != 0 {
		t.Error("Expected session to unregister")
	}
	got := out.String()
	if !strings.Contains(got, "\033[?1000h") || !strings.Contains(got, "Points: ") {
		t.Errorf("Expected mouse enable and header in output")
	}
}
