package render

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// TextElement is one run of text placed on a page.
type TextElement struct {
	// Text is already encoded for the font (WinAnsi for standard fonts).
	Text []byte

	Font string // resource name of the font, without the leading slash
	Size float64

	// X and Y give the baseline origin in page space.
	X, Y float64

	Color Color

	// GState names an ExtGState resource to apply; empty applies none.
	GState string
}
