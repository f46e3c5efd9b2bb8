package documents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/chunker"
	"github.com/tobyvann/lectern/internal/services/conversation"
	"github.com/tobyvann/lectern/internal/services/vectorindex"
	"github.com/tobyvann/lectern/internal/storage/badger"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}
func (stubEmbedder) ModelName() string                     { return "stub-embedding" }
func (stubEmbedder) Dimension() int                        { return 3 }
func (stubEmbedder) HealthCheck(ctx context.Context) error { return nil }
func (stubEmbedder) Close() error                          { return nil }

type stubChat struct{}

func (stubChat) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "stub answer", nil
}
func (stubChat) ModelName() string                     { return "stub-chat" }
func (stubChat) HealthCheck(ctx context.Context) error { return nil }
func (stubChat) Close() error                          { return nil }

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	return e.text, e.err
}

func (e *stubExtractor) GetMetadata(ctx context.Context, content []byte) (*interfaces.PDFMetadata, error) {
	return &interfaces.PDFMetadata{PageCount: 1, FileSize: int64(len(content))}, nil
}

func newTestService(t *testing.T) (*Service, *conversation.Store) {
	t.Helper()

	logger := common.GetLogger()
	cfg := common.NewDefaultConfig()
	cfg.Ingest.MaxFileSizeMB = 1

	db, err := badger.NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	index := vectorindex.NewService(stubEmbedder{}, badger.NewVectorStorage(db, logger), logger)
	chunkerSvc := chunker.NewService(&cfg.Chunking, logger)
	store := conversation.NewStore(logger)
	extractor := &stubExtractor{text: "--- Page 1 ---\n\nExtracted page content from the pdf fixture."}

	return NewService(chunkerSvc, index, store, extractor, stubChat{}, cfg, logger), store
}

func TestProcessText(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ProcessText(context.Background(), "Some reasonable document text for indexing.", "notes.txt", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, 1, result.ChunksCreated)
	assert.Len(t, result.RecordIDs, 1)
	assert.Contains(t, result.Message, "notes.txt")

	stats := svc.GetStats(context.Background())
	assert.Equal(t, 1, stats.TotalChunks)
	assert.Equal(t, "connected", stats.Status)
	assert.Equal(t, "stub-embedding", stats.EmbeddingModel)
	assert.Equal(t, "stub-chat", stats.ChatModel)
}

func TestProcessTextEmptyContent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProcessText(context.Background(), "   \n  ", "empty.txt", nil)
	require.Error(t, err)

	var emptyErr *models.EmptyContentError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestProcessTextTooLarge(t *testing.T) {
	svc, _ := newTestService(t)

	huge := strings.Repeat("a", 2*1024*1024)
	_, err := svc.ProcessText(context.Background(), huge, "huge.txt", nil)
	require.Error(t, err)

	var tooLarge *models.ContentTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
}

func TestProcessPDF(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ProcessPDF(context.Background(), []byte("%PDF-fake"), "paper.pdf", map[string]any{"topic": "testing"})
	require.NoError(t, err)
	assert.Greater(t, result.ChunksCreated, 0)
}

func TestDuplicateIngestionYieldsDistinctDocuments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.ProcessText(ctx, "Identical document content.", "dup.txt", nil)
	require.NoError(t, err)
	second, err := svc.ProcessText(ctx, "Identical document content.", "dup.txt", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.DocumentID, second.DocumentID)
	assert.Equal(t, 2, svc.GetStats(ctx).TotalChunks)
}

func TestDeleteDocument(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.ProcessText(ctx, "Document that will be deleted soon.", "gone.txt", nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteDocument(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, result.ChunksCreated, deleted)
	assert.Equal(t, 0, svc.GetStats(ctx).TotalChunks)

	// Deleting again is a no-op
	deleted, err = svc.DeleteDocument(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestClearAllAlsoDropsConversations(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.ProcessText(ctx, "Some content to populate the index.", "doc.txt", nil)
	require.NoError(t, err)
	store.Append("s1", "q", "a")
	store.Append("s2", "q", "a")

	require.NoError(t, svc.ClearAll(ctx))

	stats := svc.GetStats(ctx)
	assert.Equal(t, 0, stats.TotalChunks)
	assert.Equal(t, 0, stats.ActiveSessions)
}
