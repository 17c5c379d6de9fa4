package dodge

import (
	"strings"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
)

// Shape is the outline the player is drawn with.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
)

// String returns the lowercase shape name.
func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// ParseShape converts a shape name to a Shape.
func ParseShape(name string) (Shape, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return ShapeCircle, true
	case "square":
		return ShapeSquare, true
	case "triangle":
		return ShapeTriangle, true
	}
	return ShapeCircle, false
}

// Shapes lists every shape in picker order.
func Shapes() []Shape {
	return []Shape{ShapeCircle, ShapeSquare, ShapeTriangle}
}

// Appearance is the player's current look. UI collaborators change it
// through the setters; the renderer only reads it.
type Appearance struct {
	shape Shape
	color core.Color
}

// NewAppearance builds an appearance from config, falling back to a red
// circle for names it does not know.
func NewAppearance(cfg config.AppearanceConfig) *Appearance {
	a := &Appearance{shape: ShapeCircle, color: core.ColorRed}
	if s, ok := ParseShape(cfg.Shape); ok {
		a.shape = s
	}
	if c, ok := core.ParsePlayerColor(cfg.Color); ok {
		a.color = c
	}
	return a
}

// SetShape selects the player shape.
func (a *Appearance) SetShape(s Shape) {
	a.shape = s
}

// SetColor selects the player fill color.
func (a *Appearance) SetColor(c core.Color) {
	a.color = c
}

// Shape returns the selected shape.
func (a *Appearance) Shape() Shape {
	return a.shape
}

// Color returns the selected color.
func (a *Appearance) Color() core.Color {
	return a.color
}
