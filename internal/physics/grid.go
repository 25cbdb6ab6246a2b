package physics

import "math"

// SpatialGrid buckets circles by centre over a bounded area so that point
// queries only look at circles that can reach the point. It does not wrap.
type SpatialGrid struct {
	cellSize  float64
	cols      int
	rows      int
	buckets   [][]gridEntry
	maxRadius float64 // Largest radius since the last Clear
	count     int
}

type gridEntry struct {
	x, y, radius float64
	index        int
}

// NewSpatialGrid creates a grid covering [0,width)x[0,height). Points outside
// the area land in the nearest edge cell.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)
	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		buckets:  make([][]gridEntry, cols*rows),
	}
}

// Clear empties the grid, keeping bucket memory for the next rebuild.
func (g *SpatialGrid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	g.maxRadius = 0
	g.count = 0
}

// Len returns the number of circles in the grid.
func (g *SpatialGrid) Len() int {
	return g.count
}

// Insert adds the circle at (x, y) identified by index.
func (g *SpatialGrid) Insert(x, y, radius float64, index int) {
	col, row := g.cellOf(x, y)
	i := row*g.cols + col
	g.buckets[i] = append(g.buckets[i], gridEntry{x: x, y: y, radius: radius, index: index})
	g.maxRadius = max(g.maxRadius, radius)
	g.count++
}

// QueryPoint calls fn with the index of every circle containing (x, y).
// Iteration stops when fn returns true.
func (g *SpatialGrid) QueryPoint(x, y float64, fn func(index int) bool) {
	if g.count == 0 {
		return
	}
	minCol, minRow := g.cellOf(x-g.maxRadius, y-g.maxRadius)
	maxCol, maxRow := g.cellOf(x+g.maxRadius, y+g.maxRadius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.buckets[row*g.cols+col] {
				if PointInCircle(x, y, e.x, e.y, e.radius) && fn(e.index) {
					return
				}
			}
		}
	}
}

// cellOf returns the cell containing (x, y), clamped to the grid.
func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = min(max(int(math.Floor(x/g.cellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(y/g.cellSize)), 0), g.rows-1)
	return col, row
}
