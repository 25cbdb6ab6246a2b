package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestCanvasRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(0, 0) // top half of cell (1,1)
	c.SetFloat(1, 0)
	c.SetFloat(1, 1) // both halves of cell (2,1)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	if !strings.Contains(out, "\033[1;1H▀") {
		t.Errorf("Expected upper half block at 1;1, got %q", out)
	}
	if !strings.Contains(out, "\033[1;2H█") {
		t.Errorf("Expected full block at 1;2, got %q", out)
	}
	if strings.Contains(out, "\033[2;") {
		t.Errorf("Expected empty second row to be skipped, got %q", out)
	}
}

func TestCanvasRenderOffset(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetOffset(3, 5)
	c.SetFloat(0, 1)

	var buf bytes.Buffer
	c.Render(&buf)
	if got := buf.String(); got != "\033[6;4H▄" {
		t.Errorf("Expected offset lower half block, got %q", got)
	}
}

func TestDrawCircleFilledAndOutline(t *testing.T) {
	c := NewScaledCanvas(100, 50, 100, 100)

	c.DrawCircle(50, 50, 10, true)
	if !c.pixel(50, 50) {
		t.Error("Expected filled circle to cover its centre")
	}
	if c.pixel(65, 50) || c.pixel(50, 65) {
		t.Error("Expected filled circle to stay inside its radius")
	}

	c.Clear()
	c.DrawCircle(50, 50, 10, false)
	if c.pixel(50, 50) {
		t.Error("Expected outline to leave the centre empty")
	}
	for y := 41; y <= 58; y++ {
		found := false
		for x := 35; x <= 65; x++ {
			if c.pixel(x, y) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected outline pixels on scanline %d", y)
		}
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := NewScaledCanvas(100, 50, 200, 200)
	c.SetOffset(2, 3)

	x, y, ok := c.TerminalToLogical(3, 4)
	if !ok || x != 1 || y != 2 {
		t.Errorf("Expected (1,2,true), got (%v,%v,%v)", x, y, ok)
	}
	x, y, ok = c.TerminalToLogical(102, 53)
	if !ok || x != 199 || y != 198 {
		t.Errorf("Expected (199,198,true), got (%v,%v,%v)", x, y, ok)
	}

	outside := [][2]int{{2, 4}, {3, 3}, {103, 10}, {10, 54}}
	for _, p := range outside {
		if _, _, ok := c.TerminalToLogical(p[0], p[1]); ok {
			t.Errorf("Expected cell %v to be outside the canvas", p)
		}
	}
}

func TestChunkWriterOffsetAndFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	if out.Len() != 0 {
		t.Fatal("Expected nothing written before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "\033[2;3Hhi" {
		t.Errorf("Expected offset cursor move, got %q", got)
	}
}

func TestCanvasRenderOnlyChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(2, 2)

	var buf bytes.Buffer
	c.Render(&buf)
	if got := buf.String(); got != "\033[2;3H▀" {
		t.Fatalf("Unexpected first render %q", got)
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("Expected unchanged frame to write nothing, got %q", buf.String())
	}

	c.Clear()
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[2;3H " {
		t.Errorf("Expected vacated cell to be blanked, got %q", got)
	}

	c.MarkTextDirty(1, 1, 2)
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[1;1H \033[1;2H " {
		t.Errorf("Expected dirty cells to be restored, got %q", got)
	}

	c.SetFloat(0, 0)
	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[1;1H▀" {
		t.Errorf("Expected only set cells after ForceRedraw, got %q", got)
	}
}

func TestChunkWriterSplitsLargeFrames(t *testing.T) {
	var out chunkRecorder
	cw := NewChunkWriter(&out, 0, 0)
	cw.WriteString(strings.Repeat("x", 2*maxChunkSize+10))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []int{maxChunkSize, maxChunkSize, 10}
	if len(out.sizes) != len(want) {
		t.Fatalf("Expected %d writes, got %v", len(want), out.sizes)
	}
	for i, n := range want {
		if out.sizes[i] != n {
			t.Errorf("Write %d: expected %d bytes, got %d", i, n, out.sizes[i])
		}
	}
	if cw.Buffered() != 0 {
		t.Errorf("Expected an empty queue after Flush, got %d bytes", cw.Buffered())
	}
}

func TestTerminalSizeRejectsEmpty(t *testing.T) {
	if _, _, err := TerminalSize(func() (int, int, error) { return 0, 24, nil }); err == nil {
		t.Error("Expected an error for zero width")
	}
	w, h, err := TerminalSize(func() (int, int, error) { return 80, 24, nil })
	if err != nil || w != 80 || h != 24 {
		t.Errorf("Expected 80x24, got %dx%d err=%v", w, h, err)
	}
}

type chunkRecorder struct {
	sizes []int
}

func (r *chunkRecorder) Write(p []byte) (int, error) {
	r.sizes = append(r.sizes, len(p))
	return len(p), nil
}
