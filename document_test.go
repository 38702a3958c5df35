package pdfnumber

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	pdflib "github.com/digitorus/pdf"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/digitorus/pdfnumber/fonts"
	"github.com/digitorus/pdfnumber/internal/testpdf"
	"github.com/digitorus/pdfnumber/numbering"
)

func openTestDocument(t *testing.T, opts testpdf.Options) (*Document, []byte) {
	t.Helper()
	data := testpdf.Build(opts)
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	return doc, data
}

func reopen(t *testing.T, data []byte) *pdflib.Reader {
	t.Helper()
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to reopen output: %v", err)
	}
	return r
}

// pageContent returns the concatenated, decoded content streams of a page.
func pageContent(t *testing.T, r *pdflib.Reader, pageNum int) string {
	t.Helper()
	contents := r.Page(pageNum).V.Key("Contents")

	var streams []pdflib.Value
	switch contents.Kind() {
	case pdflib.Array:
		for i := 0; i < contents.Len(); i++ {
			streams = append(streams, contents.Index(i))
		}
	case pdflib.Stream:
		streams = append(streams, contents)
	}

	var out strings.Builder
	for _, s := range streams {
		data, err := io.ReadAll(s.Reader())
		if err != nil {
			t.Fatalf("failed to read content stream: %v", err)
		}
		out.Write(data)
		out.WriteString("\n")
	}
	return out.String()
}

func TestOpen(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 3, Width: 595, Height: 842})

	if doc.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", doc.PageCount())
	}
	for i, p := range doc.Pages() {
		if p.Index() != i {
			t.Errorf("page %d Index() = %d", i, p.Index())
		}
		w, h := p.Size()
		if w != 595 || h != 842 {
			t.Errorf("page %d Size() = %vx%v, want 595x842", i, w, h)
		}
	}
	if doc.Decrypted() {
		t.Error("plain document reported as decrypted")
	}
	if doc.rdr == nil {
		t.Error("document has no reader")
	}
	if _, err := doc.Page(3); err == nil {
		t.Error("Page(3) on a 3 page document succeeded")
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := OpenBytes([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid data")
	}
	if _, err := OpenFile("non_existent_file.pdf"); err == nil {
		t.Error("expected error opening non-existent file")
	}
}

func TestPageSizeInheritance(t *testing.T) {
	tests := []struct {
		name          string
		opts          testpdf.Options
		width, height float64
	}{
		{"own MediaBox", testpdf.Options{Pages: 1, Width: 300, Height: 400}, 300, 400},
		{"inherited MediaBox", testpdf.Options{Pages: 1, Width: 300, Height: 400, InheritMediaBox: true}, 300, 400},
		{"no MediaBox", testpdf.Options{Pages: 1, NoMediaBox: true}, 612, 792},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := openTestDocument(t, tt.opts)
			w, h := doc.Pages()[0].Size()
			if w != tt.width || h != tt.height {
				t.Errorf("Size() = %vx%v, want %vx%v", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestWriteWithoutStampsKeepsBytes(t *testing.T) {
	doc, input := openTestDocument(t, testpdf.Options{Pages: 2})

	cfg := numbering.DefaultConfig()
	cfg.Format = "   "
	if _, err := doc.AddPageNumbers(cfg); err != nil {
		t.Fatal(err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Error("output differs from input although nothing was stamped")
	}
}

func TestAddPageNumbers(t *testing.T) {
	tests := []struct {
		name string
		opts testpdf.Options
	}{
		{"xref table", testpdf.Options{Pages: 3}},
		{"xref stream", testpdf.Options{Pages: 3, XrefStream: true}},
		{"inherited resources", testpdf.Options{Pages: 3, InheritResources: true, InheritMediaBox: true}},
		{"pages without content", testpdf.Options{Pages: 3, NoContents: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, input := openTestDocument(t, tt.opts)

			result, err := doc.AddPageNumbers(numbering.DefaultConfig())
			if err != nil {
				t.Fatalf("AddPageNumbers() error = %v", err)
			}
			if len(result.Stamps) != 3 || len(result.Skipped) != 0 {
				t.Fatalf("result = %+v, want 3 stamps", result)
			}

			out, err := doc.Bytes()
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if !bytes.HasPrefix(out, input) {
				t.Fatal("output does not start with the original document")
			}

			r := reopen(t, out)
			if r.NumPage() != 3 {
				t.Fatalf("NumPage() = %d, want 3", r.NumPage())
			}

			for i := 1; i <= 3; i++ {
				content := pageContent(t, r, i)
				text := []byte(numbering.Resolve("{page}/{total}", i, 3))
				if !strings.Contains(content, "<"+hex.EncodeToString(text)+"> Tj") {
					t.Errorf("page %d content does not show %q:\n%s", i, text, content)
				}
				if !tt.opts.NoContents {
					if !strings.Contains(content, "(Page ") {
						t.Errorf("page %d lost its original content:\n%s", i, content)
					}
					if !strings.HasPrefix(content, "q\n") {
						t.Errorf("page %d content is not wrapped in q/Q", i)
					}
				}

				resources := r.Page(i).V.Key("Resources")
				if resources.Key("Font").Key("F1").Key("BaseFont").Name() != "Times-Roman" {
					t.Errorf("page %d lost its existing font resource", i)
				}
				font := resources.Key("Font").Key("PNF1")
				if font.Key("BaseFont").Name() != "Helvetica" || font.Key("Encoding").Name() != "WinAnsiEncoding" {
					t.Errorf("page %d stamp font = %v", i, font)
				}
				if ca := resources.Key("ExtGState").Key("PNGS1").Key("ca").Float64(); ca != 0.9 {
					t.Errorf("page %d opacity = %v, want 0.9", i, ca)
				}
			}
		})
	}
}

func TestAddPageNumbersPlacement(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 2})
	doc.SetCompression(zlib.NoCompression)

	result, err := doc.AddPageNumbers(numbering.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	// "1/2" in 12 pt Helvetica is (556+278+556)/1000*12 = 16.68 pt wide.
	stamp := result.Stamps[0]
	if math.Abs(stamp.Width-16.68) > 1e-9 {
		t.Errorf("Width = %v, want 16.68", stamp.Width)
	}
	if math.Abs(stamp.X-571.32) > 1e-9 || stamp.Y != 24 {
		t.Errorf("origin = (%v, %v), want (571.32, 24)", stamp.X, stamp.Y)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"/PNGS1 gs\nBT\n0 0 0 rg\n/PNF1 12 Tf\n1 0 0 1 571.32 24 Tm\n<312f32> Tj\nET\nQ\n",
		"<< /Type /ExtGState /ca 0.9 /CA 0.9 >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := bytes.Count(out, []byte("/BaseFont /Helvetica")); n != 1 {
		t.Errorf("found %d Helvetica font objects, want 1", n)
	}
}

func TestAddPageNumbersFirstOnly(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 4})

	cfg := numbering.DefaultConfig()
	cfg.Subset = numbering.FirstOnly
	cfg.StartNumber = 5

	result, err := doc.AddPageNumbers(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Stamps) != 1 || result.Stamps[0].Text != "5/4" {
		t.Fatalf("stamps = %+v, want one stamp 5/4", result.Stamps)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r := reopen(t, out)
	if !strings.Contains(pageContent(t, r, 1), "<352f34> Tj") {
		t.Error("first page was not stamped")
	}
	for i := 2; i <= 4; i++ {
		if strings.Contains(pageContent(t, r, i), " Tj\nET\nQ") {
			t.Errorf("page %d was stamped", i)
		}
	}
}

func TestAddPageNumbersAccumulates(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 1})
	doc.SetCompression(zlib.NoCompression)

	for i := 0; i < 2; i++ {
		if _, err := doc.AddPageNumbers(numbering.DefaultConfig()); err != nil {
			t.Fatal(err)
		}
	}
	if n := doc.Pages()[0].DrawCount(); n != 2 {
		t.Errorf("DrawCount() = %d, want 2", n)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(out, []byte("<312f31> Tj")); n != 2 {
		t.Errorf("found %d stamps in output, want 2", n)
	}
}

func TestAddPageNumbersUnsupportedText(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 2})
	logger, hook := test.NewNullLogger()

	cfg := numbering.DefaultConfig()
	cfg.Format = "第{page}页"

	result, err := doc.AddPageNumbers(cfg, numbering.WithLogger(logger))
	if err != nil {
		t.Fatalf("AddPageNumbers() error = %v", err)
	}
	if len(result.Skipped) != 2 || len(result.Stamps) != 0 {
		t.Fatalf("result = %+v, want 2 skipped pages", result)
	}
	if !errors.Is(result.Skipped[0], fonts.ErrUnsupportedCharacter) {
		t.Errorf("skipped error = %v, want ErrUnsupportedCharacter", result.Skipped[0])
	}
	if len(hook.Entries) != 2 {
		t.Errorf("got %d warnings, want 2", len(hook.Entries))
	}
}

func TestAddPageNumbersNoPages(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 0})
	if _, err := doc.AddPageNumbers(numbering.DefaultConfig()); !errors.Is(err, numbering.ErrInvalidDocument) {
		t.Errorf("AddPageNumbers() error = %v, want ErrInvalidDocument", err)
	}
}

func TestWriteTwiceIsStable(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 2})
	if _, err := doc.AddPageNumbers(numbering.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	first, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	second, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("writing the same document twice produced different output")
	}
}

func TestStampedOutputCanBeStampedAgain(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 2})
	if _, err := doc.AddPageNumbers(numbering.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	again, err := OpenBytes(out)
	if err != nil {
		t.Fatalf("OpenBytes(stamped) error = %v", err)
	}
	cfg := numbering.DefaultConfig()
	cfg.Position = numbering.TopLeft
	if _, err := again.AddPageNumbers(cfg); err != nil {
		t.Fatal(err)
	}
	out, err = again.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	r := reopen(t, out)
	content := pageContent(t, r, 2)
	if strings.Count(content, "<322f32> Tj") != 2 {
		t.Errorf("expected two stamps on page 2:\n%s", content)
	}
	// The second pass picks names that do not clash with the first.
	resources := r.Page(2).V.Key("Resources")
	if resources.Key("Font").Key("PNF2").IsNull() || resources.Key("ExtGState").Key("PNGS2").IsNull() {
		t.Errorf("second pass resources missing: %v", resources)
	}
}

func TestSignaturesSurviveStamping(t *testing.T) {
	doc, data := openTestDocument(t, testpdf.Options{Pages: 2, Signer: "Jane Doe"})
	if got := doc.Signatures(); len(got) != 1 || got[0] != "Jane Doe" {
		t.Fatalf("Signatures() = %v, want [Jane Doe]", got)
	}

	if _, err := doc.AddPageNumbers(numbering.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, data) {
		t.Fatal("signed revision was modified")
	}

	stamped, err := OpenBytes(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := stamped.Signatures(); len(got) != 1 || got[0] != "Jane Doe" {
		t.Errorf("Signatures() after stamping = %v, want [Jane Doe]", got)
	}

	unsigned, _ := openTestDocument(t, testpdf.Options{Pages: 1})
	if got := unsigned.Signatures(); len(got) != 0 {
		t.Errorf("unsigned document reports signatures: %v", got)
	}
}

func TestUnreadablePageIsSkipped(t *testing.T) {
	doc, _ := openTestDocument(t, testpdf.Options{Pages: 3, MissingPage: 3})
	if doc.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", doc.PageCount())
	}
	if _, err := doc.Page(2); err == nil {
		t.Error("Page(2) succeeded for a missing page object")
	}
	if n := len(doc.Pages()); n != 2 {
		t.Errorf("Pages() returned %d pages, want the 2 readable ones", n)
	}

	logger, _ := test.NewNullLogger()
	result, err := doc.AddPageNumbers(numbering.DefaultConfig(), numbering.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Stamps) != 2 || len(result.Skipped) != 1 || result.Skipped[0].PageIndex != 2 {
		t.Errorf("stamps = %d, skipped = %v", len(result.Stamps), result.Skipped)
	}
}
