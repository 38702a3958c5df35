package pdfnumber

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	pdflib "github.com/digitorus/pdf"

	"github.com/digitorus/pdfnumber/internal/incremental"
	"github.com/digitorus/pdfnumber/internal/pdf"
	"github.com/digitorus/pdfnumber/internal/render"
)

// Resource name prefixes for the objects added to stamped pages.
const (
	fontPrefix   = "PNF"
	gstatePrefix = "PNGS"
)

// sharedObjects are written once per update and referenced by every
// stamped page.
type sharedObjects struct {
	fonts   map[string]uint32  // BaseFont -> object
	gstates map[float64]uint32 // opacity -> ExtGState object
	open    uint32             // "q"
	close   uint32             // "Q"
}

// Write serializes the document with every staged stamp to output. Without
// staged stamps the original bytes are written unchanged.
func (d *Document) Write(output io.Writer) error {
	var stamped []*Page
	for _, p := range d.pages {
		if p != nil && len(p.ops) > 0 {
			stamped = append(stamped, p)
		}
	}

	if len(stamped) == 0 {
		if _, err := io.Copy(output, io.NewSectionReader(d.reader, 0, d.size)); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	}

	w, err := incremental.New(d.rdr, d.reader, d.size)
	if err != nil {
		return fmt.Errorf("failed to start update: %w", err)
	}
	w.SetCompression(d.compressLevel)

	shared := &sharedObjects{
		fonts:   make(map[string]uint32),
		gstates: make(map[float64]uint32),
	}
	if shared.open, err = w.AddStream("", []byte("q\n")); err != nil {
		return fmt.Errorf("failed to add content wrapper: %w", err)
	}
	if shared.close, err = w.AddStream("", []byte("\nQ\n")); err != nil {
		return fmt.Errorf("failed to add content wrapper: %w", err)
	}

	for _, p := range stamped {
		if err := p.write(w, shared); err != nil {
			return fmt.Errorf("failed to write page %d: %w", p.index+1, err)
		}
	}

	if err := w.Finish(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// write adds the stamp content stream of the page and replaces the page
// dictionary so the stamp is drawn after the existing content.
func (p *Page) write(w *incremental.Writer, shared *sharedObjects) error {
	ref := pdf.RefOf(p.value)
	resources := pdf.Inherited(p.value, "Resources")

	usedFonts := pdf.ResourceNames(resources, "Font")
	usedGStates := pdf.ResourceNames(resources, "ExtGState")

	newFonts := make(map[string]uint32)
	newGStates := make(map[string]uint32)
	fontNames := make(map[string]string)
	gstateNames := make(map[float64]string)

	elements := make([]render.TextElement, 0, len(p.ops))
	for _, op := range p.ops {
		fontName, ok := fontNames[op.font.Name]
		if !ok {
			id, err := shared.font(w, op.font.Name)
			if err != nil {
				return err
			}
			fontName = pdf.UniqueName(usedFonts, fontPrefix)
			fontNames[op.font.Name] = fontName
			newFonts[fontName] = id
		}

		gstateName, ok := gstateNames[op.opacity]
		if !ok {
			id, err := shared.gstate(w, op.opacity)
			if err != nil {
				return err
			}
			gstateName = pdf.UniqueName(usedGStates, gstatePrefix)
			gstateNames[op.opacity] = gstateName
			newGStates[gstateName] = id
		}

		elements = append(elements, render.TextElement{
			Text:   op.text,
			Font:   fontName,
			Size:   op.size,
			X:      op.x,
			Y:      op.y,
			Color:  render.Color{R: op.color.R, G: op.color.G, B: op.color.B},
			GState: gstateName,
		})
	}

	stampID, err := w.AddStream("", render.TextStream(elements))
	if err != nil {
		return fmt.Errorf("failed to add stamp stream: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<<")
	pdf.WriteDictEntries(&buf, ref, p.value, map[string]bool{"Contents": true, "Resources": true})

	buf.WriteString(" /Contents [")
	if existing := contentRefs(p.value.Key("Contents")); len(existing) > 0 {
		fmt.Fprintf(&buf, "%s %s %s ", pdf.Ref{ID: shared.open}, strings.Join(existing, " "), pdf.Ref{ID: shared.close})
	}
	fmt.Fprintf(&buf, "%s]", pdf.Ref{ID: stampID})

	buf.WriteString(" /Resources ")
	writeResources(&buf, resources, map[string]map[string]uint32{
		"Font":      newFonts,
		"ExtGState": newGStates,
	})
	buf.WriteString(" >>")

	if err := w.UpdateObject(ref, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to update page object: %w", err)
	}
	return nil
}

// contentRefs returns the serialized references to the existing content
// streams of a page.
func contentRefs(contents pdflib.Value) []string {
	switch contents.Kind() {
	case pdflib.Stream:
		return []string{pdf.RefOf(contents).String()}
	case pdflib.Array:
		parent := pdf.RefOf(contents)
		refs := make([]string, 0, contents.Len())
		for i := 0; i < contents.Len(); i++ {
			var b bytes.Buffer
			pdf.WriteValue(&b, parent, contents.Index(i))
			refs = append(refs, b.String())
		}
		return refs
	default:
		return nil
	}
}

// writeResources writes resources as a direct dictionary with the added
// entries merged into their categories.
func writeResources(buf *bytes.Buffer, resources pdflib.Value, added map[string]map[string]uint32) {
	categories := make([]string, 0, len(added))
	for category := range added {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	skip := make(map[string]bool, len(added))
	for _, category := range categories {
		skip[category] = true
	}

	buf.WriteString("<<")
	if resources.Kind() == pdflib.Dict {
		pdf.WriteDictEntries(buf, pdf.RefOf(resources), resources, skip)
	}

	for _, category := range categories {
		buf.WriteString(" /" + category + " <<")
		if existing := resources.Key(category); existing.Kind() == pdflib.Dict {
			pdf.WriteDictEntries(buf, pdf.RefOf(existing), existing, nil)
		}

		names := make([]string, 0, len(added[category]))
		for name := range added[category] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(buf, " /%s %s", name, pdf.Ref{ID: added[category][name]})
		}
		buf.WriteString(" >>")
	}
	buf.WriteString(" >>")
}

func (s *sharedObjects) font(w *incremental.Writer, baseFont string) (uint32, error) {
	if id, ok := s.fonts[baseFont]; ok {
		return id, nil
	}
	id, err := w.AddObject(render.FontDict(baseFont))
	if err != nil {
		return 0, fmt.Errorf("failed to add font: %w", err)
	}
	s.fonts[baseFont] = id
	return id, nil
}

func (s *sharedObjects) gstate(w *incremental.Writer, opacity float64) (uint32, error) {
	if id, ok := s.gstates[opacity]; ok {
		return id, nil
	}
	id, err := w.AddObject(render.OpacityDict(opacity))
	if err != nil {
		return 0, fmt.Errorf("failed to add graphics state: %w", err)
	}
	s.gstates[opacity] = id
	return id, nil
}
