// Package input turns raw terminal bytes into per-frame input state:
// held arrow keys, edge-triggered keys, typed runes and SGR mouse clicks.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long an arrow key is considered "held" after its last
// press. Terminals only repeat keys, they never report releases.
const keyHoldDuration = 30 * time.Millisecond

// Click is a left mouse button press at a 1-based terminal cell.
type Click struct {
	Col int
	Row int
}

// Input represents the current frame's input state.
type Input struct {
	Quit bool

	// Held keys, used for cursor movement.
	Left  bool
	Right bool
	Up    bool
	Down  bool

	// Edge-triggered: counted once per press.
	Space     int
	Enter     int
	Backspace int

	// Printable runes other than the bound keys, in typing order.
	Runes  []rune
	Clicks []Click
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state across frames.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete escape sequence carried to the next frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream reports Quit once r fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ResetKeyInput forgets held keys and any partial escape sequence, so input
// typed on one screen does not leak into the next.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
	s.pending = s.pending[:0]
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	if s.closed {
		in.Quit = true
	}
	return in
}

// parse decodes buf, updating held-key timestamps, and builds the frame input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			n, complete := s.parseEscape(buf[i:], now, &in)
			if !complete {
				s.pending = append(s.pending[:0], buf[i:]...)
				break
			}
			i += n - 1
			continue
		}

		switch b {
		case 'q', 'Q', 0x03: // Ctrl-C
			in.Quit = true
		case ' ':
			in.Space++
		case '\r', '\n':
			in.Enter++
		case '\b', 0x7f:
			in.Backspace++
		default:
			if b >= 0x21 && b < 0x7f {
				in.Runes = append(in.Runes, rune(b))
			}
		}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	return in
}

// parseEscape consumes one escape sequence at the start of seq. It returns the
// number of bytes consumed, or complete=false if seq ends mid-sequence.
func (s *Stream) parseEscape(seq []byte, now time.Time, in *Input) (n int, complete bool) {
	if len(seq) < 2 {
		// A lone ESC at the end of a read is the Escape key; nothing is bound to it.
		return 1, true
	}
	if seq[1] != '[' {
		return 1, true
	}

	// CSI: parameters then a final byte in 0x40..0x7e.
	end := -1
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, false
	}

	params := seq[2:end]
	final := seq[end]

	switch {
	case len(params) == 0 && final == 'A':
		s.state.up = now
	case len(params) == 0 && final == 'B':
		s.state.down = now
	case len(params) == 0 && final == 'C':
		s.state.right = now
	case len(params) == 0 && final == 'D':
		s.state.left = now
	case len(params) > 0 && params[0] == '<' && final == 'M':
		if c, ok := parseSGRMouse(params[1:]); ok {
			in.Clicks = append(in.Clicks, c)
		}
	}
	return end + 1, true
}

// parseSGRMouse decodes "b;x;y" from an SGR mouse press and keeps only plain
// left-button presses.
func parseSGRMouse(params []byte) (Click, bool) {
	var fields [3]int
	idx := 0
	start := 0
	for j := 0; j <= len(params); j++ {
		if j < len(params) && params[j] != ';' {
			continue
		}
		if idx >= len(fields) {
			return Click{}, false
		}
		v, err := strconv.Atoi(string(params[start:j]))
		if err != nil {
			return Click{}, false
		}
		fields[idx] = v
		idx++
		start = j + 1
	}
	if idx != len(fields) {
		return Click{}, false
	}

	button := fields[0]
	// Low bits select the button; bit 5 marks motion, bit 6 the wheel.
	if button&0b11 != 0 || button&(32|64) != 0 {
		return Click{}, false
	}
	return Click{Col: fields[1], Row: fields[2]}, true
}
