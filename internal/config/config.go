// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment variables that override config file values.
const (
	EnvLogLevel = "PROMPT_TOOLS_LOG_LEVEL"
	EnvSchema   = "PROMPT_TOOLS_SCHEMA"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Paths
	PromptsDir string `json:"prompts_dir,omitempty"` // Root of the prompt library
	SchemaPath string `json:"schema_path,omitempty"` // Path to prompt.schema.json

	// Link checks
	LinkTimeoutSeconds float64 `json:"link_timeout_seconds,omitempty" validate:"gte=0,lte=300"`
	LinkConcurrency    int     `json:"link_concurrency,omitempty" validate:"gte=0,lte=64"`

	// Ranking
	TopPercent float64 `json:"top_percent,omitempty" validate:"gte=0,lte=1"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		PromptsDir:         "prompts",
		LinkTimeoutSeconds: 10,
		LinkConcurrency:    4,
		TopPercent:         0.10,
		LogLevel:           "warn",
		LogFormat:          "console",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Missing values are fine; ranges and enumerations are checked with struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' check", jsonName(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.SchemaPath != "" {
		if _, err := os.Stat(c.SchemaPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: schema file not found: %s", c.SchemaPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.PromptsDir == "" {
		result.PromptsDir = defaults.PromptsDir
	}
	if result.SchemaPath == "" {
		result.SchemaPath = defaults.SchemaPath
	}
	if result.LinkTimeoutSeconds == 0 {
		result.LinkTimeoutSeconds = defaults.LinkTimeoutSeconds
	}
	if result.LinkConcurrency == 0 {
		result.LinkConcurrency = defaults.LinkConcurrency
	}
	if result.TopPercent == 0 {
		result.TopPercent = defaults.TopPercent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	return result
}

// ApplyEnv overrides fields from PROMPT_TOOLS_* environment variables.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	if schema := os.Getenv(EnvSchema); schema != "" {
		c.SchemaPath = schema
	}
}

func jsonName(field string) string {
	switch field {
	case "LinkTimeoutSeconds":
		return "link_timeout_seconds"
	case "LinkConcurrency":
		return "link_concurrency"
	case "TopPercent":
		return "top_percent"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	default:
		return field
	}
}
