// Package config provides unified configuration loading for sensei.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/dsa-sensei/internal/constants"
	"github.com/nvandessel/dsa-sensei/internal/logging"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config.yaml and decision logs.
const DirName = ".sensei"

// SenseiConfig contains all sensei configuration settings.
type SenseiConfig struct {
	// Catalog selects where the knowledge graph is loaded from.
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Extraction tunes entity matching.
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`

	// Responses tunes reply rendering.
	Responses ResponsesConfig `json:"responses" yaml:"responses"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics configures the Prometheus endpoint of the MCP server.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// CatalogConfig selects the catalog source. With neither field set the
// embedded default catalog is used.
type CatalogConfig struct {
	// Path is a YAML catalog file. Supports ${VAR} syntax.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Database is a SQLite catalog database. Supports ${VAR} syntax.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// ExtractionConfig configures concept and problem extraction.
type ExtractionConfig struct {
	// Fuzzy enables typo-tolerant matching.
	Fuzzy bool `json:"fuzzy" yaml:"fuzzy"`

	// FuzzyThreshold is the minimum partial-ratio score for a fuzzy match.
	// Range: 0.0 to 1.0
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// ResponsesConfig configures rendered replies.
type ResponsesConfig struct {
	// Tips appends a motivational tip to half of the replies.
	Tips bool `json:"tips" yaml:"tips"`

	// Seed makes phrase selection reproducible. 0 means unseeded.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// LoggingConfig configures sensei's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to <decision_dir>/decisions.jsonl.
	// "trace" additionally records the learner's raw text.
	Level string `json:"level" yaml:"level"`

	// DecisionDir is where decisions.jsonl is written. Defaults to ~/.sensei.
	DecisionDir string `json:"decision_dir,omitempty" yaml:"decision_dir,omitempty"`
}

// MetricsConfig configures metrics exposure.
type MetricsConfig struct {
	// Addr is the listen address for /metrics, e.g. ":9464". Empty disables it.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Default returns a SenseiConfig with sensible defaults.
func Default() *SenseiConfig {
	return &SenseiConfig{
		Extraction: ExtractionConfig{
			Fuzzy:          true,
			FuzzyThreshold: constants.DefaultFuzzyThreshold,
		},
		Responses: ResponsesConfig{
			Tips: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns ~/.sensei, or "" when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName)
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.sensei/config.yaml -> environment variables
func Load() (*SenseiConfig, error) {
	return LoadPath("")
}

// LoadPath is like Load but reads path instead of ~/.sensei/config.yaml when
// path is non-empty. An explicit path must exist.
func LoadPath(path string) (*SenseiConfig, error) {
	config := Default()

	switch {
	case path != "":
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	case DefaultDir() != "":
		configPath := filepath.Join(DefaultDir(), "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*SenseiConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Catalog.Path = expandEnvVars(config.Catalog.Path)
	config.Catalog.Database = expandEnvVars(config.Catalog.Database)
	config.Logging.DecisionDir = expandEnvVars(config.Logging.DecisionDir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *SenseiConfig) Validate() error {
	if c.Extraction.FuzzyThreshold < 0 || c.Extraction.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold must be between 0 and 1, got %f", c.Extraction.FuzzyThreshold)
	}

	if c.Catalog.Path != "" && c.Catalog.Database != "" {
		return errors.New("catalog.path and catalog.database are mutually exclusive")
	}

	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// DecisionDir returns the configured decision directory or ~/.sensei.
func (c *SenseiConfig) DecisionDir() string {
	if c.Logging.DecisionDir != "" {
		return c.Logging.DecisionDir
	}
	return DefaultDir()
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *SenseiConfig) {
	if v := os.Getenv("SENSEI_CATALOG"); v != "" {
		config.Catalog.Path = v
	}
	if v := os.Getenv("SENSEI_CATALOG_DB"); v != "" {
		config.Catalog.Database = v
	}

	if v := os.Getenv("SENSEI_FUZZY"); v != "" {
		config.Extraction.Fuzzy = v == "true" || v == "1"
	}
	if v := os.Getenv("SENSEI_FUZZY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Extraction.FuzzyThreshold = f
		}
	}

	if v := os.Getenv("SENSEI_TIPS"); v != "" {
		config.Responses.Tips = v == "true" || v == "1"
	}
	if v := os.Getenv("SENSEI_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Responses.Seed = n
		}
	}

	if v := os.Getenv("SENSEI_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SENSEI_DECISION_DIR"); v != "" {
		config.Logging.DecisionDir = v
	}

	if v := os.Getenv("SENSEI_METRICS_ADDR"); v != "" {
		config.Metrics.Addr = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
