package pdf

import (
	"iter"

	pdflib "github.com/digitorus/pdf"
)

// Signatures yields the signature dictionaries referenced from the AcroForm
// fields of the document, walking field kids up to maxTreeDepth levels.
func Signatures(r *pdflib.Reader) iter.Seq[pdflib.Value] {
	return func(yield func(pdflib.Value) bool) {
		acroForm := r.Trailer().Key("Root").Key("AcroForm")
		if acroForm.Key("SigFlags").IsNull() {
			return
		}

		var walk func(fields pdflib.Value, depth int) bool
		walk = func(fields pdflib.Value, depth int) bool {
			if fields.Kind() != pdflib.Array || depth > maxTreeDepth {
				return true
			}
			for i := 0; i < fields.Len(); i++ {
				field := fields.Index(i)
				if field.Key("FT").Name() == "Sig" && isSignature(field.Key("V")) {
					if !yield(field.Key("V")) {
						return false
					}
				}
				if !walk(field.Key("Kids"), depth+1) {
					return false
				}
			}
			return true
		}
		walk(acroForm.Key("Fields"), 0)
	}
}

func isSignature(v pdflib.Value) bool {
	switch v.Key("Type").Name() {
	case "Sig", "DocTimeStamp":
		return true
	}
	return !v.Key("Filter").IsNull() && !v.Key("Contents").IsNull()
}
