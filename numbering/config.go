package numbering

import "strings"

// Position selects where a stamp is placed on the page.
type Position string

const (
	TopLeft      Position = "top-left"
	TopRight     Position = "top-right"
	CenterTop    Position = "center-top"
	Center       Position = "center"
	CenterBottom Position = "center-bottom"
	BottomLeft   Position = "bottom-left"
	BottomRight  Position = "bottom-right"
	Custom       Position = "custom"
)

// Positions lists every known position in display order.
var Positions = []Position{TopLeft, TopRight, CenterTop, Center, CenterBottom, BottomLeft, BottomRight, Custom}

// ParsePosition returns the position named by s. Unknown names fall back to
// BottomRight.
func ParsePosition(s string) Position {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p
		}
	}
	return BottomRight
}

// PageSubset selects which pages receive a stamp.
type PageSubset string

const (
	AllPages  PageSubset = "all"
	FirstOnly PageSubset = "first-only"
)

// ParsePageSubset returns the subset named by s. Unknown names fall back to
// AllPages.
func ParsePageSubset(s string) PageSubset {
	if PageSubset(strings.ToLower(strings.TrimSpace(s))) == FirstOnly {
		return FirstOnly
	}
	return AllPages
}

// Point is a position in page space, measured from the bottom-left corner.
type Point struct {
	X, Y float64
}

// Config describes one numbering pass.
type Config struct {
	// Format may contain the placeholders {page} and {total}. An empty or
	// whitespace-only format disables numbering.
	Format string

	// StartNumber is added to the zero-based page index.
	StartNumber int

	FontSize float64
	Color    Color
	Opacity  float64

	Position Position
	Custom   Point // used only with the Custom position
	Margin   float64

	Subset PageSubset
}

// DefaultConfig returns the settings used when nothing else is configured:
// "{page}/{total}" in 12 pt black at 90% opacity, bottom right, 24 pt from
// the edges, on every page.
func DefaultConfig() Config {
	return Config{
		Format:      "{page}/{total}",
		StartNumber: 1,
		FontSize:    12,
		Color:       Color{},
		Opacity:     0.9,
		Position:    BottomRight,
		Margin:      24,
		Subset:      AllPages,
	}
}

// Enabled reports whether the format would draw anything.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Format) != ""
}

// pages returns the zero-based page indices in scope for a document with n
// pages.
func (c Config) pages(n int) []int {
	if c.Subset == FirstOnly {
		return []int{0}
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
