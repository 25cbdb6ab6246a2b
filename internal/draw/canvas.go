package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Objects draw in logical coordinates (the play area) and the canvas scales them
// to the terminal cells it was sized for.
type Canvas struct {
	termWidth      int    // Terminal columns covered by the canvas
	termHeight     int    // Terminal rows covered by the canvas
	subPixelHeight int    // termHeight * 2
	pixels         []bool // Flat slice: [y * termWidth + x]
	shown          []byte // Cell code last written per terminal cell

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// 0-based terminal offsets of the canvas origin.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that maps logicalWidth x logicalHeight onto
// termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]bool, subPixelHeight*termWidth)
		c.shown = make([]byte, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row where the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Cell codes kept in shown. cellDirty never matches a real cell, so the
// next Render rewrites it.
const (
	cellEmpty byte = iota
	cellUpper
	cellLower
	cellFull
	cellDirty byte = 0xff
)

// Half-block characters used by Render.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

var cellRunes = [...]rune{cellEmpty: ' ', cellUpper: BlockUpperHalf, cellLower: BlockLowerHalf, cellFull: BlockFull}

// ForceRedraw forgets what is on screen. Call it after clearing the terminal;
// the next Render paints every set cell again.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// MarkTextDirty marks width cells starting at the 1-based canvas position as
// overwritten by text, so the next Render restores them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.shown[r*c.termWidth+x] = cellDirty
		}
	}
}

// setPixel sets a pixel at sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// pixel reports whether a sub-pixel is set.
func (c *Canvas) pixel(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel using logical coordinates.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)))
}

// DrawLine draws a line in logical space using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawCircle draws a circle centred on (cx, cy) with the given logical radius.
// Scaling may differ per axis, so the circle is rasterised as an ellipse in
// sub-pixel space. Filled circles set every sub-pixel whose centre falls inside.
func (c *Canvas) DrawCircle(cx, cy, radius float64, filled bool) {
	pcx := cx * c.scaleX
	pcy := cy * c.scaleY
	rx := radius * c.scaleX
	ry := radius * c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}

	yStart := int(math.Floor(pcy - ry))
	yEnd := int(math.Ceil(pcy + ry))

	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - pcy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		xStart := int(math.Ceil(pcx - half - 0.5))
		xEnd := int(math.Floor(pcx + half - 0.5))
		if xStart > xEnd {
			// Thin slice at the poles still gets one pixel.
			xStart = int(math.Floor(pcx))
			xEnd = xStart
		}

		if filled {
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
			continue
		}

		// Outline: span ends plus any gap to the neighbouring scanlines so
		// the ring stays closed near the top and bottom.
		c.setPixel(xStart, y)
		c.setPixel(xEnd, y)
		next := (float64(y) + 1.5 - pcy) / ry
		prev := (float64(y) - 0.5 - pcy) / ry
		for _, d := range []float64{next, prev} {
			if d < -1 || d > 1 {
				for x := xStart; x <= xEnd; x++ {
					c.setPixel(x, y)
				}
				break
			}
			nh := rx * math.Sqrt(1-d*d)
			for x := xStart; x < int(math.Ceil(pcx-nh-0.5)); x++ {
				c.setPixel(x, y)
			}
			for x := xEnd; x > int(math.Floor(pcx+nh-0.5)); x-- {
				c.setPixel(x, y)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for smooth network flow.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render using
// half-block characters. Cells that became empty are blanked.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			code := cellEmpty
			if c.pixel(col, row*2) {
				code |= cellUpper
			}
			if c.pixel(col, row*2+1) {
				code |= cellLower
			}

			i := row*c.termWidth + col
			if c.shown[i] == code {
				continue
			}
			c.shown[i] = code

			c.moveTo(row+1+c.offsetRow, col+1+c.offsetCol)
			c.renderBuf.WriteRune(cellRunes[code])
		}
	}

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveTo(row, col int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box around the canvas when there is room for it.
func (c *Canvas) RenderBorder(w io.Writer) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + line + "┐")
	buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + line + "┘")
	for row := top + 1; row < bottom; row++ {
		r := strconv.Itoa(row)
		buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│")
		buf.WriteString("\033[" + r + ";" + strconv.Itoa(right) + "H│")
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the terminal column count covered by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based position
// relative to the canvas origin (offsets not applied).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts an absolute 1-based terminal cell (as reported
// by mouse events) to the logical coordinates of that cell's centre.
// ok is false when the cell lies outside the canvas.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	cc := col - 1 - c.offsetCol
	rr := row - 1 - c.offsetRow
	if cc < 0 || cc >= c.termWidth || rr < 0 || rr >= c.termHeight {
		return 0, 0, false
	}
	x = (float64(cc) + 0.5) / c.scaleX
	y = (float64(rr)*2 + 1) / c.scaleY
	return x, y, true
}

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
