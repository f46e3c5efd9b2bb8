package vectorindex

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
)

// Service owns the embedding client and the persistent vector collection.
// Add/Search run concurrently; destructive operations take the write lock so
// they never interleave with an in-flight batch insert.
type Service struct {
	embedder interfaces.EmbeddingService
	storage  interfaces.VectorStorage
	logger   arbor.ILogger
	mu       sync.RWMutex
}

// NewService creates a vector index manager
func NewService(embedder interfaces.EmbeddingService, storage interfaces.VectorStorage, logger arbor.ILogger) *Service {
	return &Service{
		embedder: embedder,
		storage:  storage,
		logger:   logger,
	}
}

// Add embeds all chunk contents in a single batched call and stores the
// records. On embedding failure nothing is committed. Returns the new record
// ids in input order.
func (s *Service) Add(ctx context.Context, chunks []models.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	records := make([]*models.VectorRecord, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		id := common.NewRecordID()
		ids[i] = id
		records[i] = &models.VectorRecord{
			ID:         id,
			DocumentID: c.Metadata.DocumentID,
			Content:    c.Content,
			Metadata:   c.Metadata,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
	}

	s.mu.RLock()
	err = s.storage.Insert(ctx, records)
	s.mu.RUnlock()
	if err != nil {
		return nil, &models.StorageError{Op: "insert", Err: err}
	}

	s.logger.Info().
		Str("document_id", chunks[0].Metadata.DocumentID).
		Int("records", len(records)).
		Msg("Chunks added to vector index")

	return ids, nil
}

// Search embeds the query and returns up to k records ordered by descending
// cosine similarity. An empty collection or unmatched filter yields an empty
// slice, not an error.
func (s *Service) Search(ctx context.Context, query string, k int, filter *models.SearchFilter) ([]models.ScoredRecord, error) {
	embeddings, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	results, err := s.storage.Search(ctx, embeddings[0], k, filter)
	s.mu.RUnlock()
	if err != nil {
		return nil, &models.StorageError{Op: "search", Err: err}
	}
	return results, nil
}

// DeleteByDocument removes every record belonging to the document.
// Deleting an unknown document is a no-op.
func (s *Service) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.storage.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, &models.StorageError{Op: "delete_by_document", Err: err}
	}

	s.logger.Info().
		Str("document_id", documentID).
		Int("deleted", deleted).
		Msg("Document removed from vector index")

	return deleted, nil
}

// ClearAll removes every record and leaves the collection ready for new
// writes.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DropAll(ctx); err != nil {
		return &models.StorageError{Op: "clear_all", Err: err}
	}

	s.logger.Warn().Msg("Vector index cleared")
	return nil
}

// Stats reports the committed record count. Storage failures degrade to
// status "error" with count 0 instead of failing the caller.
func (s *Service) Stats(ctx context.Context) models.IndexStats {
	s.mu.RLock()
	count, err := s.storage.Count(ctx)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read vector index stats")
		return models.IndexStats{Count: 0, Status: "error", Error: err.Error()}
	}
	return models.IndexStats{Count: count, Status: "connected"}
}

// EmbeddingModelName reports the model backing the index
func (s *Service) EmbeddingModelName() string {
	return s.embedder.ModelName()
}
