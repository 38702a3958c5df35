package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/digitorus/pdfnumber"
)

func InfoCommand() {
	infoFlags := flag.NewFlagSet("info", flag.ExitOnError)

	infoFlags.Usage = func() {
		fmt.Printf("Usage: %s info <input.pdf>\n\n", os.Args[0])
		fmt.Println("Show the page count and page sizes of a PDF file")
	}

	if err := infoFlags.Parse(os.Args[2:]); err != nil {
		logrus.Errorf("Failed to parse info flags: %v", err)
		osExit(1)
		return
	}

	if infoFlags.NArg() < 1 {
		infoFlags.Usage()
		osExit(1)
		return
	}

	if err := PrintInfo(infoFlags.Arg(0)); err != nil {
		logrus.Error(err)
		osExit(1)
	}
}

// PrintInfo writes the page count and the size of every page of input.
func PrintInfo(input string) error {
	doc, err := pdfnumber.OpenFile(input)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "%s: %d pages\n", input, doc.PageCount())
	if doc.Decrypted() {
		_, _ = fmt.Fprintln(stdout, "encrypted: yes (opened without password)")
	}
	for _, name := range doc.Signatures() {
		if name == "" {
			name = "(unnamed)"
		}
		_, _ = fmt.Fprintf(stdout, "signature: %s\n", name)
	}
	for i := 0; i < doc.PageCount(); i++ {
		p, err := doc.Page(i)
		if err != nil {
			_, _ = fmt.Fprintf(stdout, "page %d: unreadable: %v\n", i+1, err)
			continue
		}
		w, h := p.Size()
		_, _ = fmt.Fprintf(stdout, "page %d: %.2f x %.2f pt\n", i+1, w, h)
	}
	return nil
}
