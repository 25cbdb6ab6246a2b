package object

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Text is a styled line written at a 1-based position relative to the canvas.
type Text struct {
	X     int
	Y     int
	Value string
	Style lipgloss.Style
}

// Draw writes the text through the chunk writer.
func (t Text) Draw(ctx DrawContext) {
	if t.Value == "" {
		return
	}
	x := max(t.X, 1)
	y := max(t.Y, 1)
	ctx.Writer.WriteAt(x, y, t.Style.Render(t.Value))
}

// Toast is a transient notification line that expires after a few seconds.
type Toast struct {
	Message   string
	Style     lipgloss.Style
	Remaining float64 // Seconds left on screen
}

// Show replaces the toast content and restarts its timer.
func (t *Toast) Show(msg string, style lipgloss.Style, seconds float64) {
	t.Message = msg
	t.Style = style
	t.Remaining = seconds
}

// Active reports whether the toast is still visible.
func (t *Toast) Active() bool {
	return t.Remaining > 0 && t.Message != ""
}

// Tick counts the toast down by dt seconds.
func (t *Toast) Tick(dt float64) {
	if t.Remaining > 0 {
		t.Remaining -= dt
	}
}

// Line returns the toast padded to width cells so a shorter message fully
// overwrites a longer one. Inactive toasts render as blanks.
func (t *Toast) Line(width int) string {
	if width <= 0 {
		return ""
	}
	if !t.Active() {
		return runewidth.FillRight("", width)
	}
	msg := runewidth.Truncate(t.Message, width, "…")
	return t.Style.Render(msg) + runewidth.FillRight("", width-runewidth.StringWidth(msg))
}
