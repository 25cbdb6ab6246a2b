package object

import (
	"strconv"

	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/physics"
)

// Disc is the on-screen sprite of one game circle.
// X and Y are the centre in logical coordinates.
type Disc struct {
	ID      int
	X, Y    float64
	Radius  float64
	Clicked bool
	Pending float64 // Seconds left until a clicked disc is removed
	label   string
}

// NewDisc builds the sprite for a circle. The circle position is the top-left
// corner of its bounding box.
func NewDisc(c game.Circle) *Disc {
	return &Disc{
		ID:      c.ID,
		X:       c.Position.Left + config.CircleRadius,
		Y:       c.Position.Top + config.CircleRadius,
		Radius:  config.CircleRadius,
		Clicked: c.Clicked,
		label:   strconv.Itoa(c.ID),
	}
}

// Contains reports whether the logical point lies inside the disc.
func (d *Disc) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, d.X, d.Y, d.Radius)
}

// Update counts down the confirmation delay of a clicked disc.
// Discs are rebuilt from the controller, so they never remove themselves.
func (d *Disc) Update(ctx UpdateContext) (bool, error) {
	if d.Clicked && d.Pending > 0 {
		d.Pending -= ctx.Delta.Seconds()
		if d.Pending < 0 {
			d.Pending = 0
		}
	}
	return false, nil
}

// Draw renders unclicked discs as rings and clicked discs filled.
func (d *Disc) Draw(ctx DrawContext) error {
	ctx.Canvas.DrawCircle(d.X, d.Y, d.Radius, d.Clicked)
	return nil
}

// DrawLabel writes the id at the disc centre. Clicked labels blink until removal.
func (d *Disc) DrawLabel(ctx DrawContext) {
	if d.Clicked && !ShouldRenderBlink(d.Pending, config.ClickedBlinkHz) {
		return
	}
	col, row := ctx.Canvas.LogicalToTerminal(d.X, d.Y)
	col -= len(d.label) / 2
	if col < 1 || row < 1 || col+len(d.label)-1 > ctx.Canvas.TerminalWidth() || row > ctx.Canvas.TerminalHeight() {
		return
	}
	ctx.Writer.WriteAt(col, row, d.label)
	ctx.Canvas.MarkTextDirty(col, row, len(d.label))
}
