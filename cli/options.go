package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/digitorus/pdfnumber/config"
	"github.com/digitorus/pdfnumber/numbering"
)

// Environment variables providing defaults for the command line.
const (
	EnvConfig   = "PDFNUMBER_CONFIG"
	EnvLogLevel = "PDFNUMBER_LOG_LEVEL"
)

// numberingFlags holds the options shared by stamp and preview. Values only
// replace the preset when the flag is given explicitly.
type numberingFlags struct {
	configPath string
	logLevel   string

	format    string
	start     int
	size      float64
	color     string
	opacity   float64
	position  string
	x, y      float64
	margin    float64
	firstOnly bool
	suffix    string
}

func addNumberingFlags(fs *flag.FlagSet) *numberingFlags {
	d := config.Default()
	f := &numberingFlags{}

	names := make([]string, len(numbering.Positions))
	for i, p := range numbering.Positions {
		names[i] = string(p)
	}

	fs.StringVar(&f.configPath, "config", os.Getenv(EnvConfig), "Preset file (TOML)")
	fs.StringVar(&f.logLevel, "log-level", envOr(EnvLogLevel, "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&f.format, "format", d.Format, "Number format, {page} and {total} are replaced")
	fs.IntVar(&f.start, "start", d.StartNumber, "Number of the first page")
	fs.Float64Var(&f.size, "size", d.FontSize, "Font size in points")
	fs.StringVar(&f.color, "color", d.Color, "Text color as #rrggbb")
	fs.Float64Var(&f.opacity, "opacity", d.Opacity, "Text opacity between 0 and 1")
	fs.StringVar(&f.position, "position", d.Position, "Position ("+strings.Join(names, ", ")+")")
	fs.Float64Var(&f.x, "x", d.CustomX, "Horizontal offset for the custom position")
	fs.Float64Var(&f.y, "y", d.CustomY, "Vertical offset for the custom position")
	fs.Float64Var(&f.margin, "margin", d.Margin, "Distance from the page edges in points")
	fs.BoolVar(&f.firstOnly, "first-only", false, "Only number the first page")
	fs.StringVar(&f.suffix, "suffix", d.Suffix, "Suffix for the output file name")
	return f
}

// settings loads the preset and applies the flags set on the command line.
func (f *numberingFlags) settings(fs *flag.FlagSet) (config.Settings, error) {
	s := config.Default()

	path := f.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultLocation); err == nil {
			path = config.DefaultLocation
		}
	}
	if path != "" {
		var err error
		if s, err = config.Load(path); err != nil {
			return config.Settings{}, err
		}
		logrus.WithField("config", path).Debug("Loaded preset")
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "format":
			s.Format = f.format
		case "start":
			s.StartNumber = f.start
		case "size":
			s.FontSize = f.size
		case "color":
			s.Color = f.color
		case "opacity":
			s.Opacity = f.opacity
		case "position":
			s.Position = f.position
		case "x":
			s.CustomX = f.x
		case "y":
			s.CustomY = f.y
		case "margin":
			s.Margin = f.margin
		case "first-only":
			s.FirstOnly = f.firstOnly
		case "suffix":
			s.Suffix = f.suffix
		}
	})

	if err := s.ValidateFields(); err != nil {
		return config.Settings{}, fmt.Errorf("invalid options: %w", err)
	}
	return s, nil
}

// configureLogging sets the level of the standard logger. Output goes to
// stderr so it never mixes with command output.
func configureLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
