package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 200, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 4000, cfg.Retrieval.MaxContextChars)
	assert.Equal(t, 200, cfg.Retrieval.SourcePreviewChars)
	assert.Equal(t, 50, cfg.Ingest.MaxFileSizeMB)
	assert.Equal(t, float32(0.7), cfg.Gemini.Temperature)
	assert.Equal(t, float32(0.7), cfg.Claude.Temperature)
	assert.Equal(t, "90s", cfg.Gemini.Timeout)
	assert.Equal(t, "90s", cfg.Claude.Timeout)
	assert.Equal(t, LLMProviderGemini, cfg.LLM.DefaultProvider)

	require.NoError(t, cfg.Validate())
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, int64(50*1024*1024), cfg.MaxFileSizeBytes())
}

func TestLoadFromFilesMergeOrder(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte(`
[server]
port = 9000

[chunking]
size = 500
`), 0644))

	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9100
`), 0644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "later file wins")
	assert.Equal(t, 500, cfg.Chunking.Size, "earlier file survives where not overridden")
	assert.Equal(t, 200, cfg.Chunking.Overlap, "defaults survive where no file sets a value")
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LECTERN_SERVER_PORT", "7777")
	t.Setenv("LECTERN_GEMINI_API_KEY", "env-key")
	t.Setenv("LECTERN_LLM_PROVIDER", "claude")
	t.Setenv("LECTERN_LOG_OUTPUT", "stdout, file")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, LLMProviderClaude, cfg.LLM.DefaultProvider)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
}

func TestApplyFlagOverridesBeatEverything(t *testing.T) {
	t.Setenv("LECTERN_SERVER_PORT", "7777")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	cfg.ApplyFlagOverrides(FlagOverrides{Port: 8888, Provider: "CLAUDE"})
	assert.Equal(t, 8888, cfg.Server.Port)
	assert.Equal(t, LLMProviderClaude, cfg.LLM.DefaultProvider)

	// Zero values leave config untouched
	cfg.ApplyFlagOverrides(FlagOverrides{})
	assert.Equal(t, 8888, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }},
		{"overlap not below size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }},
		{"bad provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero top k", func(c *Config) { c.Retrieval.TopK = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
