package llm

import (
	"context"

	"github.com/tobyvann/lectern/internal/interfaces"
)

// geminiEmbedder exposes the Gemini service through the EmbeddingService
// interface, reporting the embedding model rather than the chat model.
type geminiEmbedder struct {
	svc *GeminiService
}

// Embedder returns the embedding view of the Gemini service. Both views
// share one client and one rate limiter.
func (s *GeminiService) Embedder() interfaces.EmbeddingService {
	return &geminiEmbedder{svc: s}
}

func (e *geminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.svc.EmbedBatch(ctx, texts)
}

func (e *geminiEmbedder) ModelName() string {
	return e.svc.EmbeddingModelName()
}

func (e *geminiEmbedder) Dimension() int {
	return e.svc.Dimension()
}

func (e *geminiEmbedder) HealthCheck(ctx context.Context) error {
	return e.svc.HealthCheck(ctx)
}

func (e *geminiEmbedder) Close() error {
	return e.svc.Close()
}
