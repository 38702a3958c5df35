// Package fonts provides the standard PDF fonts used for stamped text,
// together with their glyph metrics and WinAnsi encoding.
package fonts

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedCharacter is returned for text the font's encoding cannot
// represent.
var ErrUnsupportedCharacter = errors.New("character not supported by font encoding")

// Font is a standard (non-embedded) Type 1 font with WinAnsi encoding.
type Font struct {
	Name string // PostScript name of the font

	widths       map[rune]float64 // advance widths in 1/1000 em
	defaultWidth float64
}

// Helvetica returns the standard sans-serif font.
func Helvetica() *Font {
	return &Font{
		Name:         "Helvetica",
		widths:       helveticaWidths,
		defaultWidth: 556,
	}
}

// Encode converts text to the single-byte WinAnsi encoding used in content
// streams.
func (f *Font) Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q (U+%04X) in %s", ErrUnsupportedCharacter, r, r, f.Name)
		}
		out = append(out, b)
	}
	return out, nil
}

// MeasureWidth returns the advance width of text in points at the given
// font size.
func (f *Font) MeasureWidth(text string, size float64) (float64, error) {
	var total float64
	for _, r := range text {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return 0, fmt.Errorf("%w: %q (U+%04X) in %s", ErrUnsupportedCharacter, r, r, f.Name)
		}
		total += f.GlyphWidth(r)
	}
	return total / 1000 * size, nil
}

// GlyphWidth returns the advance width of r in 1/1000 em. Accented letters
// take the width of their base letter.
func (f *Font) GlyphWidth(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}
	if base := []rune(norm.NFD.String(string(r))); len(base) > 1 {
		if w, ok := f.widths[base[0]]; ok {
			return w
		}
	}
	return f.defaultWidth
}
