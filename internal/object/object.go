// Package object holds the sprites drawn on the play area: circle discs,
// the keyboard cursor, click bursts and text overlays.
package object

import (
	"time"

	"github.com/tomz197/circles/internal/draw"
	"github.com/tomz197/circles/internal/input"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// Bounds is the logical rectangle sprites live in.
type Bounds struct {
	Width  float64
	Height float64
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Input   Input
	Bounds  Bounds
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Half-block canvas in logical coordinates
	Writer *draw.ChunkWriter // Text overlays, positioned relative to the canvas
}

// Object is a drawable and updatable sprite.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw sets canvas pixels for the object.
	Draw(ctx DrawContext) error
}

// Labeled is implemented by objects that write text on top of the rendered canvas.
type Labeled interface {
	DrawLabel(ctx DrawContext)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if an object with remainingTime seconds of
// blinking left should be rendered this frame.
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
