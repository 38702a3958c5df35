package pdfnumber_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/digitorus/pdfnumber"
	"github.com/digitorus/pdfnumber/internal/testpdf"
	"github.com/digitorus/pdfnumber/numbering"
)

// ExampleDocument_AddPageNumbers demonstrates stamping "Page N of M" at the
// bottom center of every page.
func ExampleDocument_AddPageNumbers() {
	doc, err := pdfnumber.OpenBytes(testpdf.Build(testpdf.Options{Pages: 3}))
	if err != nil {
		log.Fatal(err)
	}

	cfg := numbering.DefaultConfig()
	cfg.Format = "Page {page} of {total}"
	cfg.Position = numbering.CenterBottom
	cfg.Color = numbering.ParseColor("#336699")

	result, err := doc.AddPageNumbers(cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range result.Stamps {
		fmt.Printf("%s at (%.2f, %.2f)\n", s.Text, s.X, s.Y)
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		log.Fatal(err)
	}

	// Output:
	// Page 1 of 3 at (275.31, 24.00)
	// Page 2 of 3 at (275.31, 24.00)
	// Page 3 of 3 at (275.31, 24.00)
}

// ExampleDocument_SetCompression demonstrates writing uncompressed content
// streams, which keeps the stamp operators readable in the output.
func ExampleDocument_SetCompression() {
	doc, err := pdfnumber.OpenBytes(testpdf.Build(testpdf.Options{Pages: 1}))
	if err != nil {
		log.Fatal(err)
	}
	doc.SetCompression(0) // zlib.NoCompression

	cfg := numbering.DefaultConfig()
	cfg.Position = numbering.TopLeft
	if _, err := doc.AddPageNumbers(cfg); err != nil {
		log.Fatal(err)
	}

	out, err := doc.Bytes()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(bytes.Contains(out, []byte("1 0 0 1 24 756 Tm")))

	// Output:
	// true
}
