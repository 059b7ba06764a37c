package driver

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"snff/pkg/errors"
)

// Output formats accepted by Result.Render.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config controls a checking session.
type Config struct {
	Locale    string `yaml:"locale"`    // diagnostic language, e.g. "en" or "pt-BR"
	Normalize bool   `yaml:"normalize"` // apply Unicode NFC before lexing
	Format    string `yaml:"format"`    // FormatText or FormatYAML
	DumpAST   bool   `yaml:"dump_ast"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Locale:    "en",
		Normalize: true,
		Format:    FormatText,
	}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown output formats.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", c.Format, FormatText, FormatYAML)
}

// Tag returns the language diagnostics are rendered in.
func (c Config) Tag() language.Tag {
	return errors.ParseLocale(c.Locale)
}
