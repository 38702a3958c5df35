package pdfnumber

import (
	"fmt"

	pdflib "github.com/digitorus/pdf"

	"github.com/digitorus/pdfnumber/fonts"
	"github.com/digitorus/pdfnumber/numbering"
)

// Page is one page of a Document. Text drawn on it is staged until the
// document is written.
type Page struct {
	doc   *Document
	index int
	value pdflib.Value

	width, height float64

	ops []textOp
}

// textOp is a staged text draw operation.
type textOp struct {
	font    *fonts.Font
	text    []byte // encoded for font
	x, y    float64
	size    float64
	color   numbering.Color
	opacity float64
}

var _ numbering.Page = (*Page)(nil)

// Index returns the zero-based position of the page in the document.
func (p *Page) Index() int {
	return p.index
}

// Size returns the page width and height in points, taken from the
// (possibly inherited) MediaBox.
func (p *Page) Size() (float64, float64) {
	return p.width, p.height
}

// DrawText stages text at the origin given in opts. The font must be the
// one returned by EmbedStandardFont; a nil font selects it.
func (p *Page) DrawText(text string, opts numbering.DrawOptions) error {
	font := p.doc.font
	if opts.Font != nil {
		f, ok := opts.Font.(*fonts.Font)
		if !ok {
			return fmt.Errorf("unsupported font type %T", opts.Font)
		}
		font = f
	}
	if font == nil {
		p.doc.font = fonts.Helvetica()
		font = p.doc.font
	}
	if opts.Size <= 0 {
		return fmt.Errorf("invalid font size %v", opts.Size)
	}

	encoded, err := font.Encode(text)
	if err != nil {
		return err
	}

	p.ops = append(p.ops, textOp{
		font:    font,
		text:    encoded,
		x:       opts.X,
		y:       opts.Y,
		size:    opts.Size,
		color:   opts.Color,
		opacity: opts.Opacity,
	})
	return nil
}

// DrawCount returns the number of text operations staged on the page.
func (p *Page) DrawCount() int {
	return len(p.ops)
}
