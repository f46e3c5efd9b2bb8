package interfaces

import (
	"context"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// EmbedBatch generates one embedding per input text in a single provider
	// call. The result slice is in input order and has len(texts) entries;
	// any provider failure fails the whole batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources
	Close() error
}
