package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
)

// GeminiService implements both the LLMService and EmbeddingService
// interfaces using the Google Gemini API. It is the only provider with an
// embedding model, so it always backs the vector index regardless of which
// chat provider is selected.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content
// format, extracting the first system message for SystemInstruction and
// preserving chronological ordering.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		var geminiRole string
		switch msg.Role {
		case "assistant":
			geminiRole = genai.RoleModel
		default:
			geminiRole = genai.RoleUser
		}

		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, systemText, nil
}

// NewGeminiService creates a new Gemini service instance
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required for Gemini service (set via GEMINI_API_KEY, LECTERN_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "text-embedding-004"
	}
	if config.EmbeddingDimensions <= 0 {
		config.EmbeddingDimensions = 768
	}

	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil || interval <= 0 {
		interval = 4 * time.Second
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 90 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}

	logger.Debug().
		Str("chat_model", config.Model).
		Str("embedding_model", config.EmbeddingModel).
		Int("embedding_dimensions", config.EmbeddingDimensions).
		Msg("Gemini LLM service initialized successfully")

	return service, nil
}

// Chat generates a completion response based on the conversation history
func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", &models.GenerationError{Provider: "gemini", Err: fmt.Errorf("messages cannot be empty")}
	}

	// Bound the call even when the caller's context has no deadline
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(timeoutCtx); err != nil {
		return "", &models.GenerationError{Provider: "gemini", Err: err}
	}

	startTime := time.Now()
	response, err := s.generateCompletion(timeoutCtx, messages)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Gemini chat completion failed")
		return "", &models.GenerationError{Provider: "gemini", Err: err}
	}

	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini chat completion completed successfully")

	return response, nil
}

func (s *GeminiService) generateCompletion(ctx context.Context, messages []interfaces.Message) (string, error) {
	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, geminiContents, config)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from chat model")
	}

	return response.String(), nil
}

// EmbedBatch generates one embedding per input text in a single API call.
// The result preserves input order; any failure fails the whole batch.
func (s *GeminiService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, &models.EmbeddingError{Op: "embed_batch", Err: fmt.Errorf("text at index %d is empty", i)}
		}
	}

	// Bound the call even when the caller's context has no deadline
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(timeoutCtx); err != nil {
		return nil, &models.EmbeddingError{Op: "embed_batch", Err: err}
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	outputDim := int32(s.config.EmbeddingDimensions)
	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	})
	if err != nil {
		return nil, &models.EmbeddingError{Op: "embed_batch", Err: err}
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, &models.EmbeddingError{Op: "embed_batch", Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), got)}
	}

	embeddings := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, &models.EmbeddingError{Op: "embed_batch", Err: fmt.Errorf("empty embedding at index %d", i)}
		}
		if len(emb.Values) != s.config.EmbeddingDimensions {
			return nil, &models.EmbeddingError{Op: "embed_batch", Err: fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbeddingDimensions, len(emb.Values))}
		}
		embeddings[i] = emb.Values
	}

	s.logger.Debug().
		Int("texts", len(texts)).
		Int("dimensions", s.config.EmbeddingDimensions).
		Msg("Batch embedding completed")

	return embeddings, nil
}

// ModelName returns the configured chat model identifier
func (s *GeminiService) ModelName() string {
	return s.config.Model
}

// EmbeddingModelName returns the configured embedding model identifier
func (s *GeminiService) EmbeddingModelName() string {
	return s.config.EmbeddingModel
}

// Dimension returns the embedding output dimensionality
func (s *GeminiService) Dimension() int {
	return s.config.EmbeddingDimensions
}

// HealthCheck verifies the Gemini service is configured and reachable
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.EmbedBatch(healthCtx, []string{"ping"}); err != nil {
		return fmt.Errorf("Gemini health check failed: %w", err)
	}
	return nil
}

// Close releases resources held by the service
func (s *GeminiService) Close() error {
	return nil
}
