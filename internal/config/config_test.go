package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"prompts_dir": "library/prompts",
		"link_timeout_seconds": 2.5,
		"link_concurrency": 8,
		"top_percent": 0.25,
		"log_level": "debug"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "library/prompts", cfg.PromptsDir)
	assert.Equal(t, 2.5, cfg.LinkTimeoutSeconds)
	assert.Equal(t, 8, cfg.LinkConcurrency)
	assert.Equal(t, 0.25, cfg.TopPercent)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.SchemaPath)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "zero value", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "negative timeout", cfg: Config{LinkTimeoutSeconds: -1}, wantErr: "'link_timeout_seconds' failed 'gte' check"},
		{name: "concurrency too high", cfg: Config{LinkConcurrency: 1000}, wantErr: "'link_concurrency' failed 'lte' check"},
		{name: "top percent above one", cfg: Config{TopPercent: 1.5}, wantErr: "'top_percent' failed 'lte' check"},
		{name: "unknown log level", cfg: Config{LogLevel: "loud"}, wantErr: "'log_level' failed 'oneof' check"},
		{name: "unknown log format", cfg: Config{LogFormat: "xml"}, wantErr: "'log_format' failed 'oneof' check"},
		{name: "missing schema", cfg: Config{SchemaPath: "/nonexistent/prompt.schema.json"}, wantErr: "schema file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		PromptsDir: "custom",
		TopPercent: 0.5,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom", merged.PromptsDir)
	assert.Equal(t, 0.5, merged.TopPercent)
	assert.Equal(t, 10.0, merged.LinkTimeoutSeconds)
	assert.Equal(t, 4, merged.LinkConcurrency)
	assert.Equal(t, "warn", merged.LogLevel)
	assert.Equal(t, "console", merged.LogFormat)

	// Original is untouched
	assert.Equal(t, 0, cfg.LinkConcurrency)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvSchema, "/tmp/custom.schema.json")

	cfg := Defaults()
	cfg.ApplyEnv()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/custom.schema.json", cfg.SchemaPath)
}

func TestApplyEnv_UnsetKeepsValues(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSchema, "")

	cfg := Defaults()
	cfg.ApplyEnv()

	assert.Equal(t, Defaults(), cfg)
}
