// Package pdfnumber stamps page numbers onto existing PDF documents.
//
// Basic usage:
//
//	doc, err := pdfnumber.OpenFile("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg := numbering.DefaultConfig()
//	cfg.Format = "Page {page} of {total}"
//
//	if _, err := doc.AddPageNumbers(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	err = doc.Write(output)
//
// Stamps are written as an incremental update: the original bytes are kept
// and the changed pages, new content streams and resources are appended.
package pdfnumber

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"

	pdflib "github.com/digitorus/pdf"

	"github.com/digitorus/pdfnumber/fonts"
	"github.com/digitorus/pdfnumber/internal/pdf"
	"github.com/digitorus/pdfnumber/numbering"
)

// Document is a PDF document whose pages can receive page number stamps.
// A Document is not safe for concurrent use.
type Document struct {
	reader io.ReaderAt
	size   int64
	rdr    *pdflib.Reader

	pages []*Page
	font  *fonts.Font

	compressLevel int
	decrypted     bool
}

var _ numbering.Document = (*Document)(nil)

// Open initializes a Document from an io.ReaderAt (e.g., an open file or
// memory buffer). The size parameter must be the total size of the PDF in
// bytes. Protected documents are decrypted when they open without a user
// password.
func Open(reader io.ReaderAt, size int64) (*Document, error) {
	rdr, err := pdflib.NewReader(reader, size)
	if err == nil && rdr.Trailer().Key("Encrypt").IsNull() {
		return newDocument(reader, size, rdr), nil
	}

	data, readErr := io.ReadAll(io.NewSectionReader(reader, 0, size))
	if readErr != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", readErr)
	}
	if err != nil && !bytes.Contains(data, []byte("/Encrypt")) {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncrypted, err)
	}

	rdr, err = pdflib.NewReader(bytes.NewReader(plain), int64(len(plain)))
	if err != nil {
		return nil, fmt.Errorf("failed to open decrypted PDF: %w", err)
	}

	doc := newDocument(bytes.NewReader(plain), int64(len(plain)), rdr)
	doc.decrypted = true
	return doc, nil
}

// OpenBytes initializes a Document from PDF bytes held in memory.
func OpenBytes(data []byte) (*Document, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

// OpenFile is a convenience method to initialize a Document from a file on
// disk.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenBytes(data)
}

func newDocument(reader io.ReaderAt, size int64, rdr *pdflib.Reader) *Document {
	n := rdr.NumPage()
	if n < 0 {
		n = 0
	}
	return &Document{
		reader:        reader,
		size:          size,
		rdr:           rdr,
		pages:         make([]*Page, n),
		compressLevel: zlib.DefaultCompression,
	}
}

// SetCompression configures the zlib compression level for new content
// streams. Supported levels are zlib.NoCompression, zlib.BestSpeed,
// zlib.BestCompression, or zlib.DefaultCompression.
func (d *Document) SetCompression(level int) {
	d.compressLevel = level
}

// Decrypted reports whether the document was protected and had to be
// decrypted on open. Its output is then based on the decrypted copy.
func (d *Document) Decrypted() bool {
	return d.decrypted
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at a zero-based index.
func (d *Document) Page(i int) (numbering.Page, error) {
	p, err := d.page(i)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d *Document) page(i int) (*Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range (0-%d)", i, len(d.pages)-1)
	}
	if d.pages[i] != nil {
		return d.pages[i], nil
	}

	value, err := pdf.FindPage(d.rdr, i+1)
	if err != nil {
		return nil, err
	}

	width, height := pdf.PageSize(value)
	d.pages[i] = &Page{
		doc:    d,
		index:  i,
		value:  value,
		width:  width,
		height: height,
	}
	return d.pages[i], nil
}

// Pages returns every page that could be loaded, in document order. Use
// Page to learn why a page is missing.
func (d *Document) Pages() []*Page {
	pages := make([]*Page, 0, len(d.pages))
	for i := range d.pages {
		if p, err := d.page(i); err == nil {
			pages = append(pages, p)
		}
	}
	return pages
}

// Signatures returns the signer names of the signatures already present in
// the document, "" for an unnamed signature. Stamping appends an incremental
// update, so these signatures keep covering the original revision.
func (d *Document) Signatures() []string {
	var names []string
	for sig := range pdf.Signatures(d.rdr) {
		names = append(names, sig.Key("Name").Text())
	}
	return names
}

// EmbedStandardFont returns the built-in Helvetica font. It is written to
// the output once, when the first page uses it.
func (d *Document) EmbedStandardFont() (numbering.Font, error) {
	if d.font == nil {
		d.font = fonts.Helvetica()
	}
	return d.font, nil
}

// AddPageNumbers stamps page numbers on the pages selected by cfg. The
// stamps are written by Write.
func (d *Document) AddPageNumbers(cfg numbering.Config, opts ...numbering.Option) (*numbering.Result, error) {
	return numbering.Apply(d, cfg, opts...)
}

// Bytes returns the serialized document including every staged stamp.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
