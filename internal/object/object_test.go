package object

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/circles/internal/draw"
	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/loop/config"
)

type collector struct{ objs []Object }

func (c *collector) Spawn(obj Object) { c.objs = append(c.objs, obj) }

var bounds = Bounds{Width: config.ViewWidth, Height: config.ViewHeight}

func TestNewDiscCentresOnBoundingBox(t *testing.T) {
	d := NewDisc(game.Circle{ID: 3, Position: game.Position{Top: 10, Left: 20}})
	if d.X != 20+config.CircleRadius || d.Y != 10+config.CircleRadius {
		t.Errorf("Expected centre offset by radius, got (%v,%v)", d.X, d.Y)
	}
	if !d.Contains(d.X, d.Y+config.CircleRadius) {
		t.Error("Expected rim point to be inside")
	}
	if d.Contains(d.X+config.CircleRadius+1, d.Y) {
		t.Error("Expected point past the rim to be outside")
	}
}

func TestDiscLabel(t *testing.T) {
	c := draw.NewScaledCanvas(100, 50, 100, 100)
	var out strings.Builder
	cw := draw.NewChunkWriter(&out, 0, 0)
	ctx := DrawContext{Canvas: c, Writer: cw}

	d := &Disc{ID: 12, X: 50, Y: 50, Radius: 10, label: "12"}
	d.DrawLabel(ctx)
	cw.Flush()
	if got := out.String(); got != "\033[26;50H12" {
		t.Errorf("Unexpected label output %q", got)
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	c := NewCursor(10, 10, 100)
	ctx := UpdateContext{
		Delta:  time.Second,
		Input:  Input{Left: true, Down: true},
		Bounds: bounds,
	}
	c.Update(ctx)
	if c.X != 0 {
		t.Errorf("Expected X clamped to 0, got %v", c.X)
	}
	if c.Y != 110 {
		t.Errorf("Expected Y to move down to 110, got %v", c.Y)
	}
}

func TestBurstSpawnsParticlesThatExpire(t *testing.T) {
	col := &collector{}
	SpawnBurst(rand.New(rand.NewSource(1)), 100, 100, 14, 8, 50, 0.5, col)
	if len(col.objs) != 8 {
		t.Fatalf("Expected 8 particles, got %d", len(col.objs))
	}

	ctx := UpdateContext{Delta: 100 * time.Millisecond, Bounds: bounds}
	for _, obj := range col.objs {
		remove, err := obj.Update(ctx)
		if err != nil || remove {
			t.Fatalf("Particle expired too early (remove=%v err=%v)", remove, err)
		}
	}

	ctx.Delta = time.Second
	for _, obj := range col.objs {
		if remove, _ := obj.Update(ctx); !remove {
			t.Error("Expected particle to expire after its lifetime")
		}
		ReleaseObject(obj)
	}

	SpawnBurst(rand.New(rand.NewSource(1)), 0, 0, 1, 3, 1, 1, nil) // nil spawner is a no-op
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0, 6) {
		t.Error("Expected steady render with no time left")
	}
	if ShouldRenderBlink(0.1, 5) == ShouldRenderBlink(0.3, 5) {
		t.Error("Expected blink phase to alternate")
	}
}

func TestToastLine(t *testing.T) {
	var toast Toast
	if got := toast.Line(5); got != "     " {
		t.Errorf("Expected blank line for idle toast, got %q", got)
	}

	toast.Show("Game started", lipgloss.NewStyle(), 1)
	if !toast.Active() {
		t.Fatal("Expected toast to be active")
	}
	if got := toast.Line(15); got != "Game started   " {
		t.Errorf("Expected padded message, got %q", got)
	}

	toast.Tick(1.5)
	if toast.Active() {
		t.Error("Expected toast to expire")
	}
}
