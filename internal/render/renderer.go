// Package render emits the content streams and resource dictionaries used
// to stamp text onto existing pages.
package render

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/digitorus/pdfnumber/internal/pdf"
)

// TextStream returns a content stream that draws elements in order. Every
// element runs in its own graphics state.
func TextStream(elements []TextElement) []byte {
	var stream bytes.Buffer
	for _, e := range elements {
		stream.WriteString("q\n")
		if e.GState != "" {
			fmt.Fprintf(&stream, "/%s gs\n", pdf.EscapeName(e.GState))
		}
		stream.WriteString("BT\n")
		fmt.Fprintf(&stream, "%s %s %s rg\n", component(e.Color.R), component(e.Color.G), component(e.Color.B))
		fmt.Fprintf(&stream, "/%s %s Tf\n", pdf.EscapeName(e.Font), pdf.FormatNumber(e.Size))
		fmt.Fprintf(&stream, "1 0 0 1 %s %s Tm\n", pdf.FormatNumber(e.X), pdf.FormatNumber(e.Y))
		fmt.Fprintf(&stream, "<%s> Tj\n", hex.EncodeToString(e.Text))
		stream.WriteString("ET\nQ\n")
	}
	return stream.Bytes()
}

// FontDict returns the dictionary of a non-embedded standard Type 1 font.
func FontDict(baseFont string) []byte {
	if baseFont == "" {
		baseFont = "Helvetica"
	}
	return fmt.Appendf(nil, "<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", pdf.EscapeName(baseFont))
}

// OpacityDict returns an ExtGState dictionary setting both fill and stroke
// opacity.
func OpacityDict(opacity float64) []byte {
	o := pdf.FormatNumber(clamp(opacity))
	return fmt.Appendf(nil, "<< /Type /ExtGState /ca %s /CA %s >>", o, o)
}

func component(c float64) string {
	return pdf.FormatNumber(clamp(c))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
