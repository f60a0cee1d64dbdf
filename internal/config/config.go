// Package config loads the optional .gherkin-gen.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/gherkin-gen/internal/language"
	"github.com/chriserin/gherkin-gen/internal/logging"
	"github.com/chriserin/gherkin-gen/internal/validator"
)

// DefaultPath is looked up in the working directory.
const DefaultPath = ".gherkin-gen.yaml"

type Config struct {
	// Language applies to documents without a "# language:" directive.
	Language    string   `yaml:"language"`
	Rules       []string `yaml:"rules,omitempty"`
	FeaturesDir string   `yaml:"features_dir"`
	Catalog     string   `yaml:"catalog"`
	LogLevel    string   `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Language:    language.DefaultCode,
		FeaturesDir: "features",
		Catalog:     ".gherkin/catalog.db",
		LogLevel:    logging.DefaultLevel,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every value that has a fixed domain.
func (c *Config) Validate() error {
	if _, ok := language.Lookup(c.Language); !ok {
		return fmt.Errorf("unknown language %q", c.Language)
	}
	if _, err := validator.RulesByName(c.Rules); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.FeaturesDir == "" {
		return errors.New("features_dir must not be empty")
	}
	if c.Catalog == "" {
		return errors.New("catalog must not be empty")
	}
	return nil
}

// DefaultLanguage resolves Language. Call Validate first.
func (c *Config) DefaultLanguage() *language.Language {
	lang, ok := language.Lookup(c.Language)
	if !ok {
		return language.Default()
	}
	return lang
}

// ValidationRules resolves Rules, falling back to the default set.
func (c *Config) ValidationRules() ([]validator.Rule, error) {
	return validator.RulesByName(c.Rules)
}

// Write saves c as YAML at path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
