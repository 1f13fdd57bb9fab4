package core

import "strings"

// Color is a foreground color for a screen cell as a "#RRGGBB" hex string.
// The empty Color means the terminal default.
type Color string

// ColorDefault leaves the terminal's foreground untouched.
const ColorDefault Color = ""

// Colors used by the viewer chrome.
const (
	ColorHUD    Color = "#A0A0A0"
	ColorPaused Color = "#F6C239"
)

// ParseColor validates a "#RRGGBB" or "#RGB" hex string.
// Short forms are expanded so every returned Color has seven characters.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return ColorDefault, false
	}
	for _, r := range s[1:] {
		if !isHex(r) {
			return ColorDefault, false
		}
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return Color(strings.ToUpper(s)), true
}

// RGB returns the color components. The default color is black.
func (c Color) RGB() (r, g, b uint8) {
	if len(c) != 7 {
		return 0, 0, 0
	}
	return hexByte(c[1], c[2]), hexByte(c[3], c[4]), hexByte(c[5], c[6])
}

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
