package cli

import (
	"strings"

	"github.com/digitorus/pdfnumber/config"
)

// OutputName derives the name of a numbered copy. The suffix is inserted
// before a trailing ".pdf" (any case) or, without that extension, appended
// together with ".pdf".
func OutputName(name, suffix string) string {
	if suffix == "" {
		suffix = config.DefaultSuffix
	}
	if name == "" {
		name = "document"
	}

	const ext = ".pdf"
	if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		base := name[:len(name)-len(ext)]
		return base + suffix + name[len(name)-len(ext):]
	}
	return name + suffix + ext
}
