// Package config reads numbering presets from TOML files.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/asaskevich/govalidator"

	"github.com/digitorus/pdfnumber/numbering"
)

func init() {
	govalidator.SetFieldsRequiredByDefault(true)

	govalidator.TagMap["positive"] = govalidator.Validator(func(str string) bool {
		f, err := strconv.ParseFloat(str, 64)
		return err == nil && f > 0
	})
	govalidator.TagMap["nonnegative"] = govalidator.Validator(func(str string) bool {
		f, err := strconv.ParseFloat(str, 64)
		return err == nil && f >= 0
	})
}

// DefaultLocation is the preset file used when none is given.
var DefaultLocation = "./pdfnumber.toml"

// DefaultSuffix is inserted before the extension of stamped output files.
const DefaultSuffix = "-numbered"

// Settings is the root of a preset file.
type Settings struct {
	Format      string  `toml:"format" valid:"optional"`
	StartNumber int     `toml:"start_number" valid:"optional"`
	FontSize    float64 `toml:"font_size" valid:"required,positive"`
	Color       string  `toml:"color" valid:"optional"`
	Opacity     float64 `toml:"opacity" valid:"optional,range(0|1)"`
	Position    string  `toml:"position" valid:"optional"`
	CustomX     float64 `toml:"custom_x" valid:"optional"`
	CustomY     float64 `toml:"custom_y" valid:"optional"`
	Margin      float64 `toml:"margin" valid:"optional,nonnegative"`
	Subset      string  `toml:"subset" valid:"optional"`
	FirstOnly   bool    `toml:"first_only" valid:"optional"`

	// Suffix names the output file of the stamp command.
	Suffix string `toml:"suffix" valid:"optional"`
}

// Default returns the built-in preset.
func Default() Settings {
	return Settings{
		Format:      "{page}/{total}",
		StartNumber: 1,
		FontSize:    12,
		Color:       "#000000",
		Opacity:     0.9,
		Position:    string(numbering.BottomRight),
		Margin:      24,
		Subset:      string(numbering.AllPages),
		Suffix:      DefaultSuffix,
	}
}

// ValidateFields validates all the fields of the settings.
func (s Settings) ValidateFields() error {
	_, err := govalidator.ValidateStruct(s)
	if err != nil {
		return err
	}
	return nil
}

// Load reads a preset file. Keys missing from the file keep their default
// value; unknown keys are an error.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return Settings{}, fmt.Errorf("config file is missing: %w", err)
	}

	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Settings{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := s.ValidateFields(); err != nil {
		return Settings{}, fmt.Errorf("config is not valid: %w", err)
	}
	return s, nil
}

// NumberingConfig converts the settings for the numbering engine. An invalid
// color becomes black, an unknown position bottom-right and an unknown subset
// all pages. FirstOnly takes precedence over Subset.
func (s Settings) NumberingConfig() numbering.Config {
	subset := numbering.ParsePageSubset(s.Subset)
	if s.FirstOnly {
		subset = numbering.FirstOnly
	}

	return numbering.Config{
		Format:      s.Format,
		StartNumber: s.StartNumber,
		FontSize:    s.FontSize,
		Color:       numbering.ParseColor(s.Color),
		Opacity:     s.Opacity,
		Position:    numbering.ParsePosition(s.Position),
		Custom:      numbering.Point{X: s.CustomX, Y: s.CustomY},
		Margin:      s.Margin,
		Subset:      subset,
	}
}
