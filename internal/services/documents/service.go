package documents

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/chunker"
	"github.com/tobyvann/lectern/internal/services/conversation"
	"github.com/tobyvann/lectern/internal/services/vectorindex"
)

// IngestResult summarizes one successful ingestion
type IngestResult struct {
	DocumentID    string   `json:"document_id"`
	ChunksCreated int      `json:"chunks_created"`
	RecordIDs     []string `json:"record_ids"`
	Message       string   `json:"message"`
}

// Stats reports the overall state of the document collection
type Stats struct {
	TotalChunks    int    `json:"total_chunks"`
	ActiveSessions int    `json:"active_sessions"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	EmbeddingModel string `json:"embedding_model"`
	ChatModel      string `json:"chat_model"`
}

// Service is the ingestion facade: it turns uploaded files into indexed
// chunks and owns collection-wide maintenance (delete, clear, stats).
type Service struct {
	chunker      *chunker.Service
	index        *vectorindex.Service
	conversation *conversation.Store
	extractor    interfaces.PDFExtractor
	chat         interfaces.LLMService
	logger       arbor.ILogger
	maxFileBytes int64
}

// NewService creates the ingestion service
func NewService(
	chunkerSvc *chunker.Service,
	index *vectorindex.Service,
	conversationStore *conversation.Store,
	extractor interfaces.PDFExtractor,
	chat interfaces.LLMService,
	cfg *common.Config,
	logger arbor.ILogger,
) *Service {
	return &Service{
		chunker:      chunkerSvc,
		index:        index,
		conversation: conversationStore,
		extractor:    extractor,
		chat:         chat,
		logger:       logger,
		maxFileBytes: cfg.MaxFileSizeBytes(),
	}
}

// MaxFileSizeBytes exposes the upload ceiling so the HTTP boundary can
// reject oversized payloads before decoding them fully.
func (s *Service) MaxFileSizeBytes() int64 {
	return s.maxFileBytes
}

// ProcessPDF extracts text from PDF bytes and indexes it
func (s *Service) ProcessPDF(ctx context.Context, content []byte, fileName string, extra map[string]any) (*IngestResult, error) {
	if int64(len(content)) > s.maxFileBytes {
		return nil, &models.ContentTooLargeError{Size: int64(len(content)), Limit: s.maxFileBytes}
	}

	text, err := s.extractor.ExtractText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("PDF extraction failed for %s: %w", fileName, err)
	}

	return s.ingest(ctx, text, fileName, models.FileTypePDF, extra)
}

// ProcessText indexes raw text under the given source name
func (s *Service) ProcessText(ctx context.Context, text, source string, extra map[string]any) (*IngestResult, error) {
	if int64(len(text)) > s.maxFileBytes {
		return nil, &models.ContentTooLargeError{Size: int64(len(text)), Limit: s.maxFileBytes}
	}
	return s.ingest(ctx, text, source, models.FileTypeText, extra)
}

func (s *Service) ingest(ctx context.Context, text, source string, fileType models.FileType, extra map[string]any) (*IngestResult, error) {
	chunks, err := s.chunker.Chunk(text, source, fileType, extra)
	if err != nil {
		return nil, err
	}

	ids, err := s.index.Add(ctx, chunks)
	if err != nil {
		return nil, err
	}

	documentID := chunks[0].Metadata.DocumentID
	s.logger.Info().
		Str("source", source).
		Str("document_id", documentID).
		Str("file_type", string(fileType)).
		Int("chunks", len(chunks)).
		Msg("Document ingested")

	return &IngestResult{
		DocumentID:    documentID,
		ChunksCreated: len(chunks),
		RecordIDs:     ids,
		Message:       fmt.Sprintf("Successfully processed %s into %d chunks", source, len(chunks)),
	}, nil
}

// DeleteDocument removes every indexed chunk of the document.
// Unknown documents are a no-op and report zero deletions.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	return s.index.DeleteByDocument(ctx, documentID)
}

// ClearAll drops the entire document collection and all conversation
// sessions, returning the system to its initial state.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.index.ClearAll(ctx); err != nil {
		return err
	}
	dropped := s.conversation.DeleteAll()

	s.logger.Warn().
		Int("sessions_dropped", dropped).
		Msg("Document collection and conversations cleared")
	return nil
}

// GetStats reports collection and session state. Storage failures degrade
// to status "error" rather than failing the call.
func (s *Service) GetStats(ctx context.Context) Stats {
	indexStats := s.index.Stats(ctx)
	return Stats{
		TotalChunks:    indexStats.Count,
		ActiveSessions: s.conversation.Count(),
		Status:         indexStats.Status,
		Error:          indexStats.Error,
		EmbeddingModel: s.index.EmbeddingModelName(),
		ChatModel:      s.chat.ModelName(),
	}
}
