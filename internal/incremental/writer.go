// Package incremental appends new and replaced objects to an existing PDF as
// an incremental update, leaving the original bytes untouched.
package incremental

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"sort"

	pdflib "github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"

	"github.com/digitorus/pdfnumber/internal/pdf"
)

type xrefEntry struct {
	ID     uint32
	Gen    uint16
	Offset int64
}

// Writer collects the objects of one incremental update.
type Writer struct {
	reader *pdflib.Reader
	input  io.ReaderAt
	size   int64

	out      *filebuffer.Buffer
	entries  []xrefEntry
	nextID   uint32
	level    int
	finished bool
}

// New prepares an update for the document read by reader. The original
// document bytes are copied to the output first.
func New(reader *pdflib.Reader, input io.ReaderAt, size int64) (*Writer, error) {
	if reader == nil {
		return nil, fmt.Errorf("no reader available")
	}

	w := &Writer{
		reader: reader,
		input:  input,
		size:   size,
		out:    filebuffer.New([]byte{}),
		level:  zlib.DefaultCompression,
	}

	if _, err := io.Copy(w.out, io.NewSectionReader(input, 0, size)); err != nil {
		return nil, fmt.Errorf("failed to copy original document: %w", err)
	}
	if _, err := w.out.Write([]byte("\n")); err != nil {
		return nil, fmt.Errorf("failed to write separator: %w", err)
	}

	next := reader.Trailer().Key("Size").Int64()
	if count := reader.XrefInformation.ItemCount; count > next {
		next = count
	}
	if next < 1 {
		next = 1
	}
	w.nextID = uint32(next)

	return w, nil
}

// SetCompression sets the zlib level used by AddStream. zlib.NoCompression
// writes streams unfiltered.
func (w *Writer) SetCompression(level int) {
	w.level = level
}

// AddObject writes data as a new object and returns its number.
func (w *Writer) AddObject(data []byte) (uint32, error) {
	id := w.nextID
	if err := w.writeObject(pdf.Ref{ID: id}, data); err != nil {
		return 0, err
	}
	w.nextID++
	return id, nil
}

// UpdateObject writes a replacement for an existing object.
func (w *Writer) UpdateObject(ref pdf.Ref, data []byte) error {
	if ref.IsZero() {
		return fmt.Errorf("cannot update object 0")
	}
	for _, e := range w.entries {
		if e.ID == ref.ID {
			return fmt.Errorf("object %d already written in this update", ref.ID)
		}
	}
	return w.writeObject(ref, data)
}

// AddStream writes a new stream object. dict holds extra dictionary entries
// such as "/Type /XObject"; Length and Filter are added here.
func (w *Writer) AddStream(dict string, content []byte) (uint32, error) {
	data, filter, err := w.encode(content)
	if err != nil {
		return 0, fmt.Errorf("failed to compress stream: %w", err)
	}

	var obj bytes.Buffer
	obj.WriteString("<<")
	if dict != "" {
		obj.WriteString(" " + dict)
	}
	if filter != "" {
		obj.WriteString(" /Filter /" + filter)
	}
	fmt.Fprintf(&obj, " /Length %d >>\nstream\n", len(data))
	obj.Write(data)
	obj.WriteString("\nendstream")

	return w.AddObject(obj.Bytes())
}

func (w *Writer) encode(content []byte) ([]byte, string, error) {
	if w.level == zlib.NoCompression {
		return content, "", nil
	}

	var b bytes.Buffer
	zw, err := zlib.NewWriterLevel(&b, w.level)
	if err != nil {
		return nil, "", err
	}
	if _, err := zw.Write(content); err != nil {
		return nil, "", err
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return b.Bytes(), "FlateDecode", nil
}

func (w *Writer) writeObject(ref pdf.Ref, data []byte) error {
	if w.finished {
		return fmt.Errorf("update already finished")
	}

	offset := int64(w.out.Buff.Len())
	if _, err := fmt.Fprintf(w.out, "%d %d obj\n", ref.ID, ref.Gen); err != nil {
		return fmt.Errorf("failed to write object header: %w", err)
	}
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("failed to write object %d: %w", ref.ID, err)
	}
	if _, err := w.out.Write([]byte("\nendobj\n")); err != nil {
		return fmt.Errorf("failed to write object trailer: %w", err)
	}

	w.entries = append(w.entries, xrefEntry{ID: ref.ID, Gen: ref.Gen, Offset: offset})
	return nil
}

// Finish writes the cross-reference section and trailer, then copies the
// complete document to dst. The update cannot be extended afterwards.
func (w *Writer) Finish(dst io.Writer) error {
	if w.finished {
		return fmt.Errorf("update already finished")
	}

	var (
		xrefStart int64
		err       error
	)
	switch w.reader.XrefInformation.Type {
	case "stream":
		xrefStart, err = w.writeXrefStream()
	default:
		xrefStart, err = w.writeXrefTable()
	}
	if err != nil {
		return err
	}
	w.finished = true

	if _, err := fmt.Fprintf(w.out, "startxref\n%d\n%%%%EOF\n", xrefStart); err != nil {
		return fmt.Errorf("failed to write startxref: %w", err)
	}

	if _, err := dst.Write(w.out.Buff.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// sortedEntries returns the entries ordered by object number.
func (w *Writer) sortedEntries() []xrefEntry {
	entries := make([]xrefEntry, len(w.entries))
	copy(entries, w.entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// subsections groups entries into runs of consecutive object numbers.
func subsections(entries []xrefEntry) [][]xrefEntry {
	var runs [][]xrefEntry
	for i, e := range entries {
		if i == 0 || e.ID != entries[i-1].ID+1 {
			runs = append(runs, nil)
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], e)
	}
	return runs
}
