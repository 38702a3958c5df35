package numbering

import (
	"strconv"
	"strings"
)

// Resolve substitutes the first {page} with page and the first {total} with
// total. The substituted values are not scanned again.
func Resolve(format string, page, total int) string {
	text := strings.Replace(format, "{page}", strconv.Itoa(page), 1)
	return strings.Replace(text, "{total}", strconv.Itoa(total), 1)
}

// Place returns the text origin for a stamp of size tw x th on a page of
// size pw x ph.
func Place(pos Position, pw, ph, tw, th, margin float64, custom Point) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, ph - th - margin
	case TopRight:
		return pw - tw - margin, ph - th - margin
	case CenterTop:
		return (pw - tw) / 2, ph - th - margin
	case Center:
		return (pw - tw) / 2, (ph - th) / 2
	case CenterBottom:
		return (pw - tw) / 2, margin
	case BottomLeft:
		return margin, margin
	case Custom:
		return custom.X, custom.Y
	default:
		return pw - tw - margin, margin
	}
}
