package incremental

import (
	"bytes"
	"fmt"

	pdflib "github.com/digitorus/pdf"

	"github.com/digitorus/pdfnumber/internal/pdf"
)

// writeTrailerEntries writes the trailer keys shared by xref tables and
// xref streams: Size, Root, Info, ID and Prev.
func (w *Writer) writeTrailerEntries(buf *bytes.Buffer, size uint32) {
	trailer := w.reader.Trailer()
	parent := pdf.RefOf(trailer)

	fmt.Fprintf(buf, " /Size %d", size)

	if root := trailer.Key("Root"); !root.IsNull() {
		buf.WriteString(" /Root ")
		pdf.WriteValue(buf, parent, root)
	}
	if info := trailer.Key("Info"); info.Kind() == pdflib.Dict {
		buf.WriteString(" /Info ")
		pdf.WriteValue(buf, parent, info)
	}
	if id := trailer.Key("ID"); id.Kind() == pdflib.Array {
		buf.WriteString(" /ID ")
		pdf.WriteValue(buf, parent, id)
	}

	fmt.Fprintf(buf, " /Prev %d", w.reader.XrefInformation.StartPos)
}
