package incremental

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
)

// writeXrefTable writes a classic cross-reference section followed by its
// trailer and returns the offset of the "xref" keyword.
func (w *Writer) writeXrefTable() (int64, error) {
	start := int64(w.out.Buff.Len())

	var buf bytes.Buffer
	buf.WriteString("xref\n")
	for _, run := range subsections(w.sortedEntries()) {
		fmt.Fprintf(&buf, "%d %d\n", run[0].ID, len(run))
		for _, e := range run {
			fmt.Fprintf(&buf, "%010d %05d n\r\n", e.Offset, e.Gen)
		}
	}

	buf.WriteString("trailer\n<<")
	w.writeTrailerEntries(&buf, w.nextID)
	buf.WriteString(" >>\n")

	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to write xref table: %w", err)
	}
	return start, nil
}

// writeXrefStream writes a cross-reference stream object that also lists
// itself, and returns its offset.
func (w *Writer) writeXrefStream() (int64, error) {
	id := w.nextID
	start := int64(w.out.Buff.Len())
	entries := append(w.sortedEntries(), xrefEntry{ID: id, Offset: start})

	var rows bytes.Buffer
	var index bytes.Buffer
	for _, run := range subsections(entries) {
		fmt.Fprintf(&index, " %d %d", run[0].ID, len(run))
		for _, e := range run {
			if e.Offset > int64(^uint32(0)) {
				return 0, fmt.Errorf("offset %d does not fit the xref stream", e.Offset)
			}
			writeXrefStreamLine(&rows, 1, uint32(e.Offset), byte(e.Gen))
		}
	}

	var data bytes.Buffer
	zw := zlib.NewWriter(&data)
	if _, err := zw.Write(rows.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to compress xref stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to compress xref stream: %w", err)
	}

	var obj bytes.Buffer
	fmt.Fprintf(&obj, "%d 0 obj\n<< /Type /XRef /W [1 4 1] /Index [%s ]", id, index.String())
	w.writeTrailerEntries(&obj, id+1)
	fmt.Fprintf(&obj, " /Filter /FlateDecode /Length %d >>\nstream\n", data.Len())
	obj.Write(data.Bytes())
	obj.WriteString("\nendstream\nendobj\n")

	if _, err := w.out.Write(obj.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to write xref stream: %w", err)
	}
	w.nextID++
	return start, nil
}

// writeXrefStreamLine writes one type/offset/generation row.
func writeXrefStreamLine(b *bytes.Buffer, kind byte, offset uint32, gen byte) {
	b.WriteByte(kind)
	var off [4]byte
	binary.BigEndian.PutUint32(off[:], offset)
	b.Write(off[:])
	b.WriteByte(gen)
}
