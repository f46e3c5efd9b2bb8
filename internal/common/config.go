package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development production"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Ingest      IngestConfig    `toml:"ingest"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type ChunkingConfig struct {
	Size    int `toml:"size" validate:"gt=0"`                  // Target chunk size in characters (default: 1000)
	Overlap int `toml:"overlap" validate:"gte=0,ltfield=Size"` // Overlap between consecutive chunks (default: 200)
}

type IngestConfig struct {
	MaxFileSizeMB int `toml:"max_file_size_mb" validate:"gt=0"` // Upload size ceiling in megabytes (default: 50)
}

type RetrievalConfig struct {
	TopK               int `toml:"top_k" validate:"gt=0"`                // Chunks retrieved per question (default: 5)
	MaxContextChars    int `toml:"max_context_chars" validate:"gt=0"`    // Retrieved context budget for prompt assembly (default: 4000)
	SourcePreviewChars int `toml:"source_preview_chars" validate:"gt=0"` // Source content preview length (default: 200)
}

// GeminiConfig contains Google Gemini API configuration. Gemini is always
// the embedding backend; it is also a chat provider.
type GeminiConfig struct {
	APIKey              string  `toml:"api_key"`              // Google Gemini API key
	Model               string  `toml:"model"`                // Chat model (default: "gemini-2.0-flash")
	EmbeddingModel      string  `toml:"embedding_model"`      // Embedding model (default: "text-embedding-004")
	EmbeddingDimensions int     `toml:"embedding_dimensions"` // Output dimensionality (default: 768)
	RateLimit           string  `toml:"rate_limit"`           // Minimum interval between API calls (default: "4s" for 15 RPM)
	Timeout             string  `toml:"timeout"`              // Per-call deadline as duration string (default: "90s")
	Temperature         float32 `toml:"temperature"`          // Chat completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-3-5-haiku-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls (default: "1s")
	Timeout     string  `toml:"timeout"`     // Per-call deadline as duration string (default: "90s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the chat completion provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the chat provider. Embeddings always use Gemini.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"` // "gemini" or "claude" (default: "gemini")
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                             // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in lectern.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/lectern",
				ResetOnStartup: false,
			},
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Ingest: IngestConfig{
			MaxFileSizeMB: 50,
		},
		Retrieval: RetrievalConfig{
			TopK:               5,
			MaxContextChars:    4000,
			SourcePreviewChars: 200,
		},
		Gemini: GeminiConfig{
			Model:               "gemini-2.0-flash",
			EmbeddingModel:      "text-embedding-004",
			EmbeddingDimensions: 768,
			RateLimit:           "4s",
			Timeout:             "90s",
			Temperature:         0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4096,
			RateLimit:   "1s",
			Timeout:     "90s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files. CLI flags are applied
// afterwards by the caller via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LECTERN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LECTERN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LECTERN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("LECTERN_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if size := os.Getenv("LECTERN_CHUNK_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			config.Chunking.Size = s
		}
	}
	if overlap := os.Getenv("LECTERN_CHUNK_OVERLAP"); overlap != "" {
		if o, err := strconv.Atoi(overlap); err == nil {
			config.Chunking.Overlap = o
		}
	}

	if topK := os.Getenv("LECTERN_RETRIEVAL_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Retrieval.TopK = k
		}
	}

	if apiKey := os.Getenv("LECTERN_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("LECTERN_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("LECTERN_GEMINI_EMBEDDING_MODEL"); model != "" {
		config.Gemini.EmbeddingModel = model
	}

	if apiKey := os.Getenv("LECTERN_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	} else if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("LECTERN_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if provider := os.Getenv("LECTERN_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	if level := os.Getenv("LECTERN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("LECTERN_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// FlagOverrides holds CLI flag values applied on top of files and env.
// Zero values mean "not set".
type FlagOverrides struct {
	Port     int
	Host     string
	LogLevel string
	Provider string
}

// ApplyFlagOverrides applies CLI flag overrides (highest priority)
func (c *Config) ApplyFlagOverrides(f FlagOverrides) {
	if f.Port > 0 {
		c.Server.Port = f.Port
	}
	if f.Host != "" {
		c.Server.Host = f.Host
	}
	if f.LogLevel != "" {
		c.Logging.Level = f.LogLevel
	}
	if f.Provider != "" {
		c.LLM.DefaultProvider = LLMProvider(strings.ToLower(f.Provider))
	}
}

// Validate checks the merged configuration against struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// MaxFileSizeBytes returns the ingestion ceiling in bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Ingest.MaxFileSizeMB) * 1024 * 1024
}
