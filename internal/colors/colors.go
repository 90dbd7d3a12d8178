// Package colors persists the calltip display colours.
//
// Colours live in a small JSON document:
//
//	{"backgroundColor": [40, 44, 52], "textColor": [189, 172, 172]}
//
// A missing or unreadable document is never an error for callers: the
// defaults are returned and the file is rewritten with them.
package colors

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor indicates a value that is not an RGB triple in 0-255.
var ErrInvalidColor = errors.New("invalid color")

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Default colours.
var (
	DefaultBackground = RGB{40, 44, 52}
	DefaultText       = RGB{189, 172, 172}
)

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.color().Hex()
}

// Ints returns the colour as a three element slice, the on-disk form.
func (c RGB) Ints() []int {
	return []int{int(c.R), int(c.G), int(c.B)}
}

// String returns "(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

func (c RGB) color() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// FromInts builds a colour from three integers in 0-255.
func FromInts(v []int) (RGB, error) {
	if len(v) != 3 {
		return RGB{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidColor, len(v))
	}
	for _, n := range v {
		if n < 0 || n > 255 {
			return RGB{}, fmt.Errorf("%w: component %d out of range", ErrInvalidColor, n)
		}
	}
	return RGB{uint8(v[0]), uint8(v[1]), uint8(v[2])}, nil
}

// Colors is the pair of colours used to draw a calltip.
type Colors struct {
	Background RGB
	Text       RGB
}

// Defaults returns the built-in colours.
func Defaults() Colors {
	return Colors{Background: DefaultBackground, Text: DefaultText}
}

// Provider supplies the colours current at display time.
type Provider interface {
	Colors() Colors
}

// Static is a Provider that always returns the same colours.
type Static Colors

// Colors implements Provider.
func (s Static) Colors() Colors {
	return Colors(s)
}
