// Package palette resolves tag colours from user preferences and keeps
// highlight backgrounds legible against the editor's text colour.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB colour.
type Color struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = Color{R: 0, G: 0, B: 0}
	White = Color{R: 255, G: 255, B: 255}
)

// ParseHex parses "#RGB", "#RRGGBB", "RGB" or "RRGGBB".
func ParseHex(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %q", hex)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is ParseHex for compile-time constants; it panics on error.
func MustParseHex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsHex reports whether s parses as a colour.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Darken scales each channel towards black. Amount should be 0.0 to 1.0.
func (c Color) Darken(amount float64) Color {
	return Color{
		R: uint8(float64(c.R) * (1 - amount)),
		G: uint8(float64(c.G) * (1 - amount)),
		B: uint8(float64(c.B) * (1 - amount)),
	}
}

// Lighten scales each channel towards white. Amount should be 0.0 to 1.0.
func (c Color) Lighten(amount float64) Color {
	return Color{
		R: uint8(min(255, float64(c.R)+float64(255-c.R)*amount)),
		G: uint8(min(255, float64(c.G)+float64(255-c.G)*amount)),
		B: uint8(min(255, float64(c.B)+float64(255-c.B)*amount)),
	}
}

// Brightness returns the perceived brightness in [0, 255] using the
// 299/587/114 channel weights.
func (c Color) Brightness() float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// TextOn returns black or white, whichever reads better on c.
func TextOn(c Color) Color {
	if c.Brightness() > 128 {
		return Black
	}
	return White
}

// Luminance returns the relative luminance of c as defined by WCAG 2.x.
func (c Color) Luminance() float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between a and b, in [1, 21].
func ContrastRatio(a, b Color) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(cf colorful.Color) Color {
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}
