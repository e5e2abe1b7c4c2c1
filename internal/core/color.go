package core

import "strconv"

// Color is a foreground color for a screen cell.
type Color uint8

// Palette used by tiles and HUD text.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// ANSI returns the 256-color code for c, or "" for ColorDefault.
func (c Color) ANSI() string {
	switch {
	case c == ColorDefault:
		return ""
	case c <= ColorWhite:
		return strconv.Itoa(int(c))
	case c <= ColorBrightWhite:
		// Bright variants sit 8 above the base colors, skipping bright black.
		return strconv.Itoa(int(c) + 1)
	case c == ColorOrange:
		return "208"
	default:
		return "245"
	}
}
