package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/groqtype/internal/evaluator"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = ".groqtype.yaml"

// Config holds settings shared by commands. Flags override it.
type Config struct {
	// MaxDepth bounds evaluator recursion. 0 uses the evaluator default.
	MaxDepth int `yaml:"max_depth"`

	// MaxCombinations bounds object-literal variants. 0 uses the default.
	MaxCombinations int `yaml:"max_combinations"`

	// RequireOptional makes check reject values that omit optional attributes.
	RequireOptional bool `yaml:"require_optional"`

	// Cache is the SQLite inference cache path. Empty disables caching.
	Cache string `yaml:"cache"`
}

// LoadConfig reads a YAML config file. A missing file yields the zero Config
// unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.MaxDepth < 0 || cfg.MaxCombinations < 0 {
		return cfg, fmt.Errorf("config %s: limits must be non-negative", path)
	}
	return cfg, nil
}

// EvaluatorOptions converts the limits to evaluator options.
func (c Config) EvaluatorOptions() evaluator.Options {
	return evaluator.Options{
		MaxDepth:        c.MaxDepth,
		MaxCombinations: c.MaxCombinations,
	}
}
