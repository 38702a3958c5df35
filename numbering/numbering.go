// Package numbering computes page number stamps and draws them on the pages
// of a document.
//
// The package only depends on the small Document, Page and Font interfaces
// below; the root pdfnumber package implements them for PDF files.
package numbering

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrInvalidDocument is returned when there is no document or it has no
// pages.
var ErrInvalidDocument = errors.New("invalid document: no pages")

// Document is a parsed, mutable multi-page document.
type Document interface {
	PageCount() int
	// Page returns the page at a zero-based index.
	Page(i int) (Page, error)
	// EmbedStandardFont returns the built-in font used for stamps.
	EmbedStandardFont() (Font, error)
}

// Page is a single page that accepts text draw operations.
type Page interface {
	// Size returns the page width and height in points.
	Size() (width, height float64)
	DrawText(text string, opts DrawOptions) error
}

// Font measures text for placement.
type Font interface {
	// MeasureWidth returns the width of text in points at the given size.
	MeasureWidth(text string, size float64) (float64, error)
}

// DrawOptions carries everything a page needs to draw one stamp.
type DrawOptions struct {
	X, Y    float64
	Size    float64
	Font    Font
	Color   Color
	Opacity float64
}

// Stamp is the numbering text computed for and drawn on one page.
type Stamp struct {
	PageIndex int
	Number    int
	Text      string

	X, Y          float64
	Width, Height float64

	Size    float64
	Color   Color
	Opacity float64
}

// PageError records a page whose stamp was skipped.
type PageError struct {
	PageIndex int
	Err       error
}

func (e PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.PageIndex+1, e.Err)
}

func (e PageError) Unwrap() error {
	return e.Err
}

// Result reports the outcome of Apply.
type Result struct {
	Stamps  []Stamp
	Skipped []PageError
}

type options struct {
	logger logrus.FieldLogger
}

// Option configures Apply.
type Option func(*options)

// WithLogger sets the logger used for per-page warnings.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Apply stamps every page selected by cfg. A failure on one page is logged
// and recorded in Result.Skipped; it never stops the remaining pages.
// Applying twice draws a second, overlapping stamp.
func Apply(doc Document, cfg Config, opts ...Option) (*Result, error) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if doc == nil || doc.PageCount() < 1 {
		return nil, ErrInvalidDocument
	}
	total := doc.PageCount()
	indices := cfg.pages(total)

	result := &Result{}
	if !cfg.Enabled() {
		return result, nil
	}

	font, fontErr := doc.EmbedStandardFont()
	if fontErr != nil {
		fontErr = fmt.Errorf("failed to embed font: %w", fontErr)
	} else if font == nil {
		fontErr = errors.New("no font available")
	}

	for _, i := range indices {
		err := fontErr
		if err == nil {
			var stamp Stamp
			if stamp, err = stampPage(doc, font, cfg, i, total); err == nil {
				result.Stamps = append(result.Stamps, stamp)
				continue
			}
		}

		o.logger.WithFields(logrus.Fields{
			"page":  i + 1,
			"error": err,
		}).Warn("Skipping page number")
		result.Skipped = append(result.Skipped, PageError{PageIndex: i, Err: err})
	}

	return result, nil
}

// stampPage computes the stamp for page i and draws it. A panic in the
// document implementation is reported as an error for this page.
func stampPage(doc Document, font Font, cfg Config, i, total int) (stamp Stamp, err error) {
	defer func() {
		if r := recover(); r != nil {
			stamp, err = Stamp{}, fmt.Errorf("panic while stamping: %v", r)
		}
	}()

	page, err := doc.Page(i)
	if err != nil {
		return Stamp{}, fmt.Errorf("failed to get page: %w", err)
	}

	number := cfg.StartNumber + i
	text := Resolve(cfg.Format, number, total)

	tw, err := font.MeasureWidth(text, cfg.FontSize)
	if err != nil {
		return Stamp{}, fmt.Errorf("failed to measure %q: %w", text, err)
	}
	th := cfg.FontSize

	pw, ph := page.Size()
	x, y := Place(cfg.Position, pw, ph, tw, th, cfg.Margin, cfg.Custom)

	err = page.DrawText(text, DrawOptions{
		X:       x,
		Y:       y,
		Size:    cfg.FontSize,
		Font:    font,
		Color:   cfg.Color,
		Opacity: cfg.Opacity,
	})
	if err != nil {
		return Stamp{}, fmt.Errorf("failed to draw %q: %w", text, err)
	}

	return Stamp{
		PageIndex: i,
		Number:    number,
		Text:      text,
		X:         x,
		Y:         y,
		Width:     tw,
		Height:    th,
		Size:      cfg.FontSize,
		Color:     cfg.Color,
		Opacity:   cfg.Opacity,
	}, nil
}
