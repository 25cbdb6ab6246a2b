package draw

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1000h\033[?1006h" // Button presses, SGR encoding
	seqMouseOff    = "\033[?1006l\033[?1000l"
	seqResetStyles = "\033[0m"
)

// ChunkWriter batches a frame's output and hands it to the underlying writer
// in packets of at most maxChunkSize bytes, which keeps SSH channels smooth.
// Cursor moves are relative to an origin so the same drawing code works for
// the centred board and for absolute UI rows.
type ChunkWriter struct {
	out     io.Writer
	pending []byte
	num     [20]byte
	originX int
	originY int
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter on w whose cell (1,1) is the terminal
// cell (offsetCol+1, offsetRow+1).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, originX: offsetCol, originY: offsetRow}
}

// SetOffset moves the origin, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.originX, cw.originY = offsetCol, offsetRow
}

// MoveCursor queues a cursor move to the 1-based cell (col, row) relative to the origin.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.pending = append(cw.pending, "\033["...)
	cw.pending = append(cw.pending, strconv.AppendInt(cw.num[:0], int64(row+cw.originY), 10)...)
	cw.pending = append(cw.pending, ';')
	cw.pending = append(cw.pending, strconv.AppendInt(cw.num[:0], int64(col+cw.originX), 10)...)
	cw.pending = append(cw.pending, 'H')
}

// Write queues raw bytes. It never fails.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.pending = append(cw.pending, p...)
	return len(p), nil
}

// WriteString queues s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.pending = append(cw.pending, s...)
}

// WriteAt queues s at the 1-based cell (col, row) relative to the origin.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.WriteString(s)
}

// ClearScreen queues a full terminal clear.
func (cw *ChunkWriter) ClearScreen() {
	cw.WriteString(seqClear)
}

// Buffered returns the number of queued bytes.
func (cw *ChunkWriter) Buffered() int {
	return len(cw.pending)
}

// Flush writes everything queued and empties the queue, even on error.
func (cw *ChunkWriter) Flush() error {
	rest := cw.pending
	cw.pending = cw.pending[:0]
	for len(rest) > 0 {
		n := min(len(rest), maxChunkSize)
		if _, err := cw.out.Write(rest[:n]); err != nil {
			return fmt.Errorf("draw: flush: %w", err)
		}
		rest = rest[n:]
	}
	return nil
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSize calls sizeFunc and rejects empty dimensions, which some
// clients report before their first window change.
func TerminalSize(sizeFunc TermSizeFunc) (width, height int, err error) {
	width, height, err = sizeFunc()
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("draw: invalid terminal size %dx%d", width, height)
	}
	return width, height, nil
}

// EnterGameScreen hides the cursor, turns on mouse reporting and clears the screen.
func EnterGameScreen(w io.Writer) {
	io.WriteString(w, seqHideCursor+seqMouseOn+seqClear)
}

// LeaveGameScreen undoes EnterGameScreen and resets any styling.
func LeaveGameScreen(w io.Writer) {
	io.WriteString(w, seqResetStyles+seqMouseOff+seqClear+seqShowCursor)
}
