package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/digitorus/pdfnumber/config"
	"github.com/digitorus/pdfnumber/numbering"
)

func PreviewCommand() {
	previewFlags := flag.NewFlagSet("preview", flag.ExitOnError)
	opts := addNumberingFlags(previewFlags)

	previewFlags.Usage = func() {
		fmt.Printf("Usage: %s preview [options] <input.pdf>\n\n", os.Args[0])
		fmt.Println("Write a numbered copy to a temporary file and list the stamps")
		fmt.Println("\nOptions:")
		previewFlags.PrintDefaults()
	}

	if err := previewFlags.Parse(os.Args[2:]); err != nil {
		logrus.Errorf("Failed to parse preview flags: %v", err)
		osExit(1)
		return
	}

	if previewFlags.NArg() < 1 {
		previewFlags.Usage()
		osExit(1)
		return
	}

	if err := configureLogging(opts.logLevel); err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	settings, err := opts.settings(previewFlags)
	if err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	path, result, err := PreviewPDF(previewFlags.Arg(0), settings)
	if err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}
	printPlan(result, path)
}

// PreviewPDF numbers input and writes the result to a new temporary file,
// returning its path. The caller owns the file.
func PreviewPDF(input string, settings config.Settings) (string, *numbering.Result, error) {
	doc, result, err := numberFile(input, settings)
	if err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp("", "pdfnumber-preview-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create preview file: %w", err)
	}

	if err := doc.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to close preview file: %w", err)
	}
	return tmp.Name(), result, nil
}

func printPlan(result *numbering.Result, path string) {
	for _, s := range result.Stamps {
		_, _ = fmt.Fprintf(stdout, "page %d: %q at (%.2f, %.2f) %.1fpt %s\n", s.PageIndex+1, s.Text, s.X, s.Y, s.Size, s.Color.Hex())
	}
	for _, skipped := range result.Skipped {
		_, _ = fmt.Fprintf(stdout, "skipped %v\n", skipped)
	}
	_, _ = fmt.Fprintf(stdout, "preview: %s\n", path)
}
