package pdfnumber

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/digitorus/pdfnumber/internal/testpdf"
	"github.com/digitorus/pdfnumber/numbering"
)

func TestOpenUndecryptable(t *testing.T) {
	_, err := OpenBytes([]byte("%PDF-1.7\n1 0 obj << /Encrypt 2 0 R >> endobj\n"))
	if !errors.Is(err, ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}

func TestOpenEncrypted(t *testing.T) {
	plain := testpdf.Build(testpdf.Options{Pages: 2})

	var encrypted bytes.Buffer
	conf := model.NewAESConfiguration("", "owner", 256)
	if err := api.Encrypt(bytes.NewReader(plain), &encrypted, conf); err != nil {
		t.Skipf("could not encrypt fixture: %v", err)
	}

	doc, err := OpenBytes(encrypted.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes(encrypted) error = %v", err)
	}
	if !doc.Decrypted() {
		t.Error("Decrypted() = false for an encrypted input")
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}

	result, err := doc.AddPageNumbers(numbering.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Stamps) != 2 {
		t.Errorf("expected 2 stamps, got %d", len(result.Stamps))
	}
	if _, err := doc.Bytes(); err != nil {
		t.Errorf("Bytes() error = %v", err)
	}
}
