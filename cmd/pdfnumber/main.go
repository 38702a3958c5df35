// Command pdfnumber adds page numbers to PDF files.
package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/digitorus/pdfnumber/cli"
)

func main() {
	// PDFNUMBER_CONFIG and PDFNUMBER_LOG_LEVEL may come from a .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to load .env: %v", err)
	}

	cli.Run()
}
