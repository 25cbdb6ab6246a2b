package object

import (
	"github.com/tomz197/circles/internal/draw"
	"github.com/tomz197/circles/internal/physics"
)

// Cursor is the keyboard-driven pointer. Space clicks at its position.
type Cursor struct {
	X, Y  float64 // Logical position
	Speed float64 // Logical units per second while an arrow is held
	Size  float64 // Half-length of the crosshair arms
}

// NewCursor creates a cursor at the given position.
func NewCursor(x, y, speed float64) *Cursor {
	return &Cursor{X: x, Y: y, Speed: speed, Size: 4}
}

// Update moves the cursor with the held arrow keys and keeps it inside the bounds.
func (c *Cursor) Update(ctx UpdateContext) (bool, error) {
	step := c.Speed * ctx.Delta.Seconds()

	if ctx.Input.Left {
		c.X -= step
	}
	if ctx.Input.Right {
		c.X += step
	}
	if ctx.Input.Up {
		c.Y -= step
	}
	if ctx.Input.Down {
		c.Y += step
	}

	c.X = physics.Clamp(c.X, 0, ctx.Bounds.Width)
	c.Y = physics.Clamp(c.Y, 0, ctx.Bounds.Height)
	return false, nil
}

// Draw renders the cursor as a small crosshair.
func (c *Cursor) Draw(ctx DrawContext) error {
	ctx.Canvas.DrawLine(draw.Point{X: c.X - c.Size, Y: c.Y}, draw.Point{X: c.X + c.Size, Y: c.Y})
	ctx.Canvas.DrawLine(draw.Point{X: c.X, Y: c.Y - c.Size}, draw.Point{X: c.X, Y: c.Y + c.Size})
	return nil
}
