package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/digitorus/pdfnumber"
	"github.com/digitorus/pdfnumber/config"
	"github.com/digitorus/pdfnumber/numbering"
)

func StampCommand() {
	stampFlags := flag.NewFlagSet("stamp", flag.ExitOnError)
	opts := addNumberingFlags(stampFlags)

	stampFlags.Usage = func() {
		fmt.Printf("Usage: %s stamp [options] <input.pdf> [output.pdf]\n\n", os.Args[0])
		fmt.Println("Add page numbers to a PDF file")
		fmt.Println("\nOptions:")
		stampFlags.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Printf("  %s stamp report.pdf\n", os.Args[0])
		fmt.Printf("  %s stamp -format \"Page {page} of {total}\" -position center-bottom report.pdf out.pdf\n", os.Args[0])
		fmt.Printf("  %s stamp -config preset.toml -first-only report.pdf\n", os.Args[0])
	}

	if err := stampFlags.Parse(os.Args[2:]); err != nil {
		logrus.Errorf("Failed to parse stamp flags: %v", err)
		osExit(1)
		return
	}

	if stampFlags.NArg() < 1 {
		stampFlags.Usage()
		osExit(1)
		return
	}

	if err := configureLogging(opts.logLevel); err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	settings, err := opts.settings(stampFlags)
	if err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	input := stampFlags.Arg(0)
	output := stampFlags.Arg(1)
	if output == "" {
		output = filepath.Join(filepath.Dir(input), OutputName(filepath.Base(input), settings.Suffix))
	}
	StampPDF(input, output, settings)
}

// StampPDF numbers input and writes the result to output. It is a variable
// so tests can intercept the command.
var StampPDF = stampPDFImpl

func stampPDFImpl(input, output string, settings config.Settings) {
	doc, result, err := numberFile(input, settings)
	if err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	outputFile, err := os.Create(output)
	if err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}
	defer func() {
		if err := outputFile.Close(); err != nil {
			logrus.Errorf("error closing output file: %v", err)
		}
	}()

	if err := doc.Write(outputFile); err != nil {
		logrus.Error(err)
		osExit(1)
		return
	}

	logrus.WithFields(logrus.Fields{
		"output":  output,
		"stamped": len(result.Stamps),
		"skipped": len(result.Skipped),
	}).Info("Numbered PDF written")
}

// numberFile opens input and stamps it with settings.
func numberFile(input string, settings config.Settings) (*pdfnumber.Document, *numbering.Result, error) {
	doc, err := pdfnumber.OpenFile(input)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.WithField("file", input)
	if doc.Decrypted() {
		log.Warn("Document was decrypted, the output is not protected")
	}

	result, err := doc.AddPageNumbers(settings.NumberingConfig(), numbering.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to number %s: %w", input, err)
	}
	return doc, result, nil
}
