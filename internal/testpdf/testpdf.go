// Package testpdf builds small, well-formed PDF documents for tests.
package testpdf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Options describes the document to build.
type Options struct {
	Pages int

	// Width and Height default to US Letter.
	Width, Height float64

	// InheritMediaBox puts the MediaBox on the page tree root instead of on
	// each page.
	InheritMediaBox bool

	// InheritResources puts the Resources dictionary on the page tree root.
	InheritResources bool

	// NoMediaBox leaves the MediaBox out entirely.
	NoMediaBox bool

	// NoContents creates pages without a Contents entry.
	NoContents bool

	// XrefStream writes a cross-reference stream instead of a table.
	XrefStream bool

	// MissingPage makes the page tree point at an undefined object for this
	// 1-based page number.
	MissingPage int

	// Signer adds a signed signature field with this name to the catalog.
	// The signature value is a placeholder and does not verify.
	Signer string
}

// Build returns the bytes of a PDF with opts.Pages pages. Each page shows
// "Page N" using the resource name /F1.
func Build(opts Options) []byte {
	if opts.Width == 0 {
		opts.Width = 612
	}
	if opts.Height == 0 {
		opts.Height = 792
	}

	b := &builder{}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	mediaBox := fmt.Sprintf("/MediaBox [0 0 %s %s]", num(opts.Width), num(opts.Height))
	resources := "/Resources << /Font << /F1 3 0 R >> >>"

	// 1: catalog, 2: page tree, 3: font, then a page and a content stream
	// per page, then the info dictionary.
	kids := make([]string, opts.Pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
		if i+1 == opts.MissingPage {
			kids[i] = "9999 0 R"
		}
	}

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if opts.Signer != "" {
		catalog += fmt.Sprintf(" /AcroForm << /SigFlags 3 /Fields [<< /FT /Sig /T (Signature1) /V << /Type /Sig /Filter /Adobe.PPKLite /SubFilter /adbe.pkcs7.detached /Name (%s) /ByteRange [0 0 0 0] /Contents <00> >> >>] >>", opts.Signer)
	}
	b.object(1, catalog+" >>")

	tree := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", strings.Join(kids, " "), opts.Pages)
	if opts.InheritMediaBox && !opts.NoMediaBox {
		tree += " " + mediaBox
	}
	if opts.InheritResources {
		tree += " " + resources
	}
	b.object(2, tree+" >>")

	b.object(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Times-Roman >>")

	for i := 0; i < opts.Pages; i++ {
		page := "<< /Type /Page /Parent 2 0 R"
		if !opts.InheritMediaBox && !opts.NoMediaBox {
			page += " " + mediaBox
		}
		if !opts.InheritResources {
			page += " " + resources
		}
		if !opts.NoContents {
			page += fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		b.object(4+2*i, page+" >>")

		content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (Page %d) Tj ET", i+1)
		b.object(5+2*i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	info := 4 + 2*opts.Pages
	b.object(info, "<< /Producer (testpdf) >>")

	trailer := fmt.Sprintf("/Root 1 0 R /Info %d 0 R /ID [<0123456789abcdef0123456789abcdef> <0123456789abcdef0123456789abcdef>]", info)
	if opts.XrefStream {
		b.xrefStream(info+1, trailer)
	} else {
		b.xrefTable(info+1, trailer)
	}
	return b.buf.Bytes()
}

type builder struct {
	buf     bytes.Buffer
	offsets []int
}

func (b *builder) object(id int, body string) {
	for len(b.offsets) <= id {
		b.offsets = append(b.offsets, 0)
	}
	b.offsets[id] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (b *builder) xrefTable(size int, trailer string) {
	start := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", size)
	fmt.Fprintf(&b.buf, "%010d %05d f\r\n", 0, 65535)
	for id := 1; id < size; id++ {
		fmt.Fprintf(&b.buf, "%010d %05d n\r\n", b.offsets[id], 0)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d %s >>\nstartxref\n%d\n%%%%EOF\n", size, trailer, start)
}

func (b *builder) xrefStream(id int, trailer string) {
	start := b.buf.Len()

	var rows bytes.Buffer
	row := func(kind byte, offset int, gen byte) {
		rows.WriteByte(kind)
		var off [4]byte
		binary.BigEndian.PutUint32(off[:], uint32(offset))
		rows.Write(off[:])
		rows.WriteByte(gen)
	}
	row(0, 0, 255)
	for i := 1; i < id; i++ {
		row(1, b.offsets[i], 0)
	}
	row(1, start, 0)

	fmt.Fprintf(&b.buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 1] %s /Length %d >>\nstream\n",
		id, id+1, trailer, rows.Len())
	b.buf.Write(rows.Bytes())
	fmt.Fprintf(&b.buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", start)
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
