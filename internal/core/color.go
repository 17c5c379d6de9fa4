package core

import (
	"slices"
	"strings"
)

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorPurple
	ColorCyan
	ColorWhite
	ColorOrange
	ColorPink
	ColorGray
)

var colorNames = map[Color]string{
	ColorDefault: "default",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorPurple:  "purple",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
	ColorOrange:  "orange",
	ColorPink:    "pink",
	ColorGray:    "gray",
}

// String returns the lowercase name of the color.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseColor converts a color name to a Color.
// Matching is case-insensitive; "magenta" is accepted as purple.
func ParseColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "magenta" {
		return ColorPurple, true
	}
	for c, n := range colorNames {
		if n == name {
			return c, true
		}
	}
	return ColorDefault, false
}

// PlayerColors lists the colors offered by the appearance picker, in display order.
// White and gray are left out; obstacles and the border use them.
func PlayerColors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorPurple, ColorOrange, ColorCyan, ColorPink}
}

// ParsePlayerColor is ParseColor restricted to PlayerColors.
func ParsePlayerColor(name string) (Color, bool) {
	c, ok := ParseColor(name)
	if !ok || !slices.Contains(PlayerColors(), c) {
		return ColorDefault, false
	}
	return c, true
}
