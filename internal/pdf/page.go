// Package pdf contains helpers around the low-level PDF reader: page tree
// lookups, page geometry and serialization of existing objects.
package pdf

import (
	"fmt"
	"strconv"

	pdflib "github.com/digitorus/pdf"
)

// maxTreeDepth bounds Parent chains so a malformed page tree cannot loop.
const maxTreeDepth = 64

// LetterBox is used when a page carries no usable MediaBox.
var LetterBox = [4]float64{0, 0, 612, 792}

// Inherited looks up key on the page and then on its ancestors.
func Inherited(page pdflib.Value, key string) pdflib.Value {
	node := page
	for depth := 0; depth < maxTreeDepth && !node.IsNull(); depth++ {
		if v := node.Key(key); !v.IsNull() {
			return v
		}
		node = node.Key("Parent")
	}
	return pdflib.Value{}
}

// MediaBox returns the (possibly inherited) MediaBox of a page.
func MediaBox(page pdflib.Value) [4]float64 {
	box := Inherited(page, "MediaBox")
	if box.Kind() != pdflib.Array || box.Len() < 4 {
		return LetterBox
	}

	var mb [4]float64
	for i := range mb {
		mb[i] = box.Index(i).Float64()
	}
	return mb
}

// PageSize returns the width and height of a page in points.
func PageSize(page pdflib.Value) (float64, float64) {
	mb := MediaBox(page)
	return mb[2] - mb[0], mb[3] - mb[1]
}

// FindPage returns the page dictionary for a 1-based page number.
func FindPage(r *pdflib.Reader, pageNum int) (pdflib.Value, error) {
	if r == nil {
		return pdflib.Value{}, fmt.Errorf("no reader available")
	}
	if pageNum < 1 || pageNum > r.NumPage() {
		return pdflib.Value{}, fmt.Errorf("page %d out of range (1-%d)", pageNum, r.NumPage())
	}

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return pdflib.Value{}, fmt.Errorf("page %d not found", pageNum)
	}
	if RefOf(page.V).IsZero() {
		return pdflib.Value{}, fmt.Errorf("page %d is not an indirect object", pageNum)
	}
	return page.V, nil
}

// ResourceNames returns the names already used in one category (Font,
// ExtGState, ...) of a resource dictionary.
func ResourceNames(resources pdflib.Value, category string) map[string]bool {
	names := make(map[string]bool)
	if resources.Kind() != pdflib.Dict {
		return names
	}

	entries := resources.Key(category)
	if entries.Kind() != pdflib.Dict {
		return names
	}
	for _, name := range entries.Keys() {
		names[name] = true
	}
	return names
}

// UniqueName returns prefix followed by the lowest number that is not yet in
// used, and marks it as used.
func UniqueName(used map[string]bool, prefix string) string {
	for i := 1; ; i++ {
		name := prefix + strconv.Itoa(i)
		if !used[name] {
			used[name] = true
			return name
		}
	}
}
