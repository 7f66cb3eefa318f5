package viz

import (
	"math"
	"strings"

	"github.com/san-kum/threephase/internal/render"
)

const brailleBase = 0x2800

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome Braille raster. Width and Height count terminal
// cells; dot coordinates run over Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: max(w, 1), Height: max(h, 1)}
	c.cells = make([][]rune, c.Height)
	for i := range c.cells {
		c.cells[i] = make([]rune, c.Width)
	}
	c.Clear()
	return c
}

// Dots returns the raster size in dots.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBase
		}
	}
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Line draws with Bresenham between two dot positions.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Segment draws s shifted up by offY dots.
func (c *Canvas) Segment(s render.Segment, offY float64) {
	c.Line(round(s.From.X), round(s.From.Y-offY), round(s.To.X), round(s.To.Y-offY))
}

func (c *Canvas) Polyline(pts []render.Point, offY float64) {
	for i := 1; i < len(pts); i++ {
		c.Segment(render.Segment{From: pts[i-1], To: pts[i]}, offY)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		b.WriteString(string(row))
		if i < len(c.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return int(math.Round(v))
}
