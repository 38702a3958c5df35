package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	pdflib "github.com/digitorus/pdf"
)

// Ref identifies an indirect object.
type Ref struct {
	ID  uint32
	Gen uint16
}

// IsZero reports whether r refers to no object.
func (r Ref) IsZero() bool {
	return r.ID == 0
}

// String returns the reference in PDF syntax ("12 0 R").
func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.ID, r.Gen)
}

// RefOf returns the object a value was loaded from. Direct values report
// the object that contains them.
func RefOf(v pdflib.Value) Ref {
	ptr := v.GetPtr()
	return Ref{ID: uint32(ptr.GetID()), Gen: uint16(ptr.GetGen())}
}

// WriteValue serializes v in PDF syntax. Values that live in another object
// than parent are written as indirect references.
func WriteValue(buf *bytes.Buffer, parent Ref, v pdflib.Value) {
	if r := RefOf(v); !r.IsZero() && r != parent {
		buf.WriteString(r.String())
		return
	}

	switch v.Kind() {
	case pdflib.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case pdflib.Integer:
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))
	case pdflib.Real:
		buf.WriteString(FormatNumber(v.Float64()))
	case pdflib.String:
		buf.WriteString(HexString(v.RawString()))
	case pdflib.Name:
		buf.WriteString("/" + EscapeName(v.Name()))
	case pdflib.Array:
		buf.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteString(" ")
			}
			WriteValue(buf, parent, v.Index(i))
		}
		buf.WriteString("]")
	case pdflib.Dict:
		buf.WriteString("<<")
		WriteDictEntries(buf, parent, v, nil)
		buf.WriteString(" >>")
	default:
		// Streams are always indirect, so a direct one cannot be expressed.
		buf.WriteString("null")
	}
}

// WriteDictEntries writes the " /Key value" pairs of dict, leaving out the
// keys in skip.
func WriteDictEntries(buf *bytes.Buffer, parent Ref, dict pdflib.Value, skip map[string]bool) {
	for _, key := range dict.Keys() {
		if skip[key] {
			continue
		}
		buf.WriteString(" /" + EscapeName(key) + " ")
		WriteValue(buf, parent, dict.Key(key))
	}
}

// FormatNumber formats a real number with at most four decimals and without
// trailing zeros.
func FormatNumber(f float64) string {
	f = math.Round(f*10000) / 10000
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// HexString encodes raw bytes as a PDF hexadecimal string.
func HexString(s string) string {
	return "<" + hex.EncodeToString([]byte(s)) + ">"
}

// EscapeName escapes the characters a PDF name cannot hold literally.
func EscapeName(name string) string {
	var buf bytes.Buffer
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '!' || c > '~' || bytes.IndexByte([]byte("#()<>[]{}/%"), c) >= 0 {
			fmt.Fprintf(&buf, "#%02X", c)
			continue
		}
		buf.WriteByte(c)
	}
	return buf.String()
}
