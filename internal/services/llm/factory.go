package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
)

// Providers bundles the chat and embedding services built from config.
// Embeddings always come from Gemini; the chat provider is selectable.
type Providers struct {
	Chat      interfaces.LLMService
	Embedding interfaces.EmbeddingService
	Gemini    *GeminiService
}

// NewProviders creates the configured chat provider plus the Gemini-backed
// embedding service.
func NewProviders(cfg *common.Config, logger arbor.ILogger) (*Providers, error) {
	logger.Info().Str("provider", string(cfg.LLM.DefaultProvider)).Msg("Initializing LLM services")

	gemini, err := NewGeminiService(&cfg.Gemini, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}

	providers := &Providers{
		Embedding: gemini.Embedder(),
		Gemini:    gemini,
	}

	switch cfg.LLM.DefaultProvider {
	case common.LLMProviderGemini:
		providers.Chat = gemini
	case common.LLMProviderClaude:
		claude, err := NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		providers.Chat = claude
	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'gemini' or 'claude'", cfg.LLM.DefaultProvider)
	}

	return providers, nil
}

// Close releases both services
func (p *Providers) Close() error {
	var firstErr error
	if p.Chat != nil {
		if err := p.Chat.Close(); err != nil {
			firstErr = err
		}
	}
	if p.Gemini != nil {
		if err := p.Gemini.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
