package dodge

import (
	"math"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Visual characters and colors for rendering
const (
	CircleGlyph   = '●'
	SquareGlyph   = '█'
	TriangleGlyph = '▲'
	ObstacleGlyph = '█'

	// Obstacles never take the player's color.
	ObstacleColor = core.ColorWhite
	BorderColor   = core.ColorGray
)

// Layout places the canvas on the screen.
type Layout struct {
	Canvas core.Rect // Canvas area in screen cells, inside the border
	CellW  float64   // World pixels per column
	CellH  float64   // World pixels per row
}

// NewLayout centers a canvas of the given world size on a screen.
func NewLayout(screenW, screenH int, canvasW, canvasH float64, cc config.CanvasConfig) Layout {
	cols := int(canvasW / cc.CellWidth)
	rows := int(canvasH / cc.CellHeight)
	return Layout{
		Canvas: core.NewRect((screenW-cols)/2, (screenH-rows)/2, cols, rows),
		CellW:  cc.CellWidth,
		CellH:  cc.CellHeight,
	}
}

// Border returns the rectangle of the box drawn around the canvas.
func (l Layout) Border() core.Rect {
	return core.NewRect(l.Canvas.X-1, l.Canvas.Y-1, l.Canvas.W+2, l.Canvas.H+2)
}

// ToWorld converts a screen cell to the world position of its center.
func (l Layout) ToWorld(x, y int) (float64, float64) {
	return (float64(x-l.Canvas.X) + 0.5) * l.CellW, (float64(y-l.Canvas.Y) + 0.5) * l.CellH
}

// Render clears dst and draws the world: border, player, then obstacles.
func Render(dst *core.Screen, w *World, look *Appearance, cc config.CanvasConfig) Layout {
	dst.Clear()

	canvasW, canvasH := w.Canvas()
	l := NewLayout(dst.Width(), dst.Height(), canvasW, canvasH, cc)
	dst.DrawBox(l.Border(), BorderColor)

	p := w.Player().Rect()
	switch look.Shape() {
	case ShapeSquare:
		l.fill(dst, p, inRect(p), SquareGlyph, look.Color())
	case ShapeTriangle:
		l.fill(dst, p, inTriangle(p), TriangleGlyph, look.Color())
	default:
		l.fill(dst, p, inCircle(p), CircleGlyph, look.Color())
	}

	for _, o := range w.Obstacles() {
		r := o.Rect()
		l.fill(dst, r, inRect(r), ObstacleGlyph, ObstacleColor)
	}

	return l
}

// fill draws every cell whose center lies inside the shape. Shapes smaller
// than a cell still get the cell under their center.
func (l Layout) fill(dst *core.Screen, bounds core.RectF, inside func(x, y float64) bool, glyph rune, c core.Color) {
	c0 := int(math.Floor(bounds.X / l.CellW))
	c1 := int(math.Ceil(bounds.Right() / l.CellW))
	r0 := int(math.Floor(bounds.Y / l.CellH))
	r1 := int(math.Ceil(bounds.Bottom() / l.CellH))

	drawn := false
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			px := (float64(col) + 0.5) * l.CellW
			py := (float64(row) + 0.5) * l.CellH
			if inside(px, py) {
				l.set(dst, col, row, glyph, c)
				drawn = true
			}
		}
	}

	if !drawn {
		cx, cy := bounds.Center()
		l.set(dst, int(math.Floor(cx/l.CellW)), int(math.Floor(cy/l.CellH)), glyph, c)
	}
}

// set draws a canvas cell, clipping to the canvas.
func (l Layout) set(dst *core.Screen, col, row int, glyph rune, c core.Color) {
	if col < 0 || row < 0 || col >= l.Canvas.W || row >= l.Canvas.H {
		return
	}
	dst.SetWithColor(l.Canvas.X+col, l.Canvas.Y+row, glyph, c)
}

func inRect(r core.RectF) func(x, y float64) bool {
	return func(x, y float64) bool {
		return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
	}
}

func inCircle(r core.RectF) func(x, y float64) bool {
	cx, cy := r.Center()
	radius := r.W / 2
	return func(x, y float64) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= radius*radius
	}
}

// inTriangle tests against the upward triangle with its apex at the top middle.
func inTriangle(r core.RectF) func(x, y float64) bool {
	ax, ay := r.X, r.Bottom()
	bx, by := r.X+r.W/2, r.Y
	cx, cy := r.Right(), r.Bottom()
	return func(x, y float64) bool {
		d1 := edgeSign(x, y, ax, ay, bx, by)
		d2 := edgeSign(x, y, bx, by, cx, cy)
		d3 := edgeSign(x, y, cx, cy, ax, ay)
		hasNeg := d1 < 0 || d2 < 0 || d3 < 0
		hasPos := d1 > 0 || d2 > 0 || d3 > 0
		return !(hasNeg && hasPos)
	}
}

func edgeSign(px, py, x1, y1, x2, y2 float64) float64 {
	return (px-x2)*(y1-y2) - (x1-x2)*(py-y2)
}
