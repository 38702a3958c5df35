package numbering

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Black is the zero Color.
var Black = Color{}

// ParseColor parses "#RRGGBB" or "RRGGBB". Anything else yields black.
func ParseColor(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return Black
	}
	return Color{
		R: float64(b[0]) / 255,
		G: float64(b[1]) / 255,
		B: float64(b[2]) / 255,
	}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
