// Package color implements the small amount of color arithmetic needed to
// evaluate derived palette cells.
package color

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Color is an opaque 24-bit sRGB color.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// RGB returns a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Parse parses "#rrggbb" or "rrggbb".
func Parse(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	var b [3]byte
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: b[0], G: b[1], B: b[2]}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Space selects the channel decomposition a blend operates in.
type Space string

const (
	SpaceRGB Space = "rgb"
	SpaceHSV Space = "hsv"
	SpaceHSL Space = "hsl"
)

// Valid reports whether s is a known space.
func (s Space) Valid() bool {
	switch s {
	case SpaceRGB, SpaceHSV, SpaceHSL:
		return true
	}
	return false
}

// channels decomposes c into three components in [0, 1] for the space.
func (s Space) channels(c Color) [3]float64 {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	switch s {
	case SpaceHSV:
		h, sat, v := rgbToHSV(r, g, b)
		return [3]float64{h, sat, v}
	case SpaceHSL:
		h, sat, l := rgbToHSL(r, g, b)
		return [3]float64{h, sat, l}
	default:
		return [3]float64{r, g, b}
	}
}

func (s Space) compose(ch [3]float64) Color {
	var r, g, b float64
	switch s {
	case SpaceHSV:
		r, g, b = hsvToRGB(ch[0], ch[1], ch[2])
	case SpaceHSL:
		r, g, b = hslToRGB(ch[0], ch[1], ch[2])
	default:
		r, g, b = ch[0], ch[1], ch[2]
	}
	return Color{R: toByte(r), G: toByte(g), B: toByte(b)}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp(v) * 255))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func rgbToHSV(r, g, b float64) (h, s, v float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	d := hi - lo
	v = hi
	if hi > 0 {
		s = d / hi
	}
	return hue(r, g, b, hi, d), s, v
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	d := hi - lo
	l = (hi + lo) / 2
	if d > 0 {
		s = d / (1 - math.Abs(2*l-1))
	}
	return hue(r, g, b, hi, d), s, l
}

// hue returns the hue in [0, 1).
func hue(r, g, b, hi, d float64) float64 {
	if d == 0 {
		return 0
	}
	var h float64
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	return fromChroma(h, c, v-c)
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	c := (1 - math.Abs(2*l-1)) * s
	return fromChroma(h, c, l-c/2)
}

func fromChroma(h, c, m float64) (r, g, b float64) {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	hp := h * 6
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	switch int(hp) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
