package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/models"
)

func newTestService(size, overlap int) *Service {
	return NewService(&common.ChunkingConfig{Size: size, Overlap: overlap}, common.GetLogger())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses whitespace runs",
			input:    "hello    world\tfoo",
			expected: "hello world foo",
		},
		{
			name:     "strips nul bytes",
			input:    "hello\x00world here",
			expected: "helloworld here",
		},
		{
			name:     "drops empty and single character lines",
			input:    "first line\n\nx\n.\nsecond line",
			expected: "first line\nsecond line",
		},
		{
			name:     "whitespace only input",
			input:    "   \n\t\n  ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestChunk_EmptyContent(t *testing.T) {
	svc := newTestService(1000, 200)

	for _, input := range []string{"", "   ", "\n\n\n", "x\ny\nz"} {
		_, err := svc.Chunk(input, "empty.txt", models.FileTypeText, nil)
		require.Error(t, err)

		var emptyErr *models.EmptyContentError
		assert.ErrorAs(t, err, &emptyErr)
	}
}

func TestChunk_SmallInputSingleChunk(t *testing.T) {
	svc := newTestService(1000, 200)

	chunks, err := svc.Chunk("A short document about nothing much.", "short.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "A short document about nothing much.", c.Content)
	assert.Equal(t, "short.txt", c.Metadata.Source)
	assert.Equal(t, models.FileTypeText, c.Metadata.FileType)
	assert.Equal(t, 0, c.Metadata.ChunkIndex)
	assert.Equal(t, 1, c.Metadata.TotalChunks)
	assert.Equal(t, len(c.Content), c.Metadata.ChunkSize)
	assert.NotEmpty(t, c.Metadata.DocumentID)
	assert.False(t, c.Metadata.ProcessedAt.IsZero())
}

func TestChunk_LongInputMetadataInvariants(t *testing.T) {
	svc := newTestService(200, 50)

	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString("This is sentence number whatever, padding out the document. ")
	}

	chunks, err := svc.Chunk(sb.String(), "long.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	docID := chunks[0].Metadata.DocumentID
	for i, c := range chunks {
		assert.Equal(t, i, c.Metadata.ChunkIndex, "indices must be contiguous from 0")
		assert.Equal(t, len(chunks), c.Metadata.TotalChunks)
		assert.Equal(t, docID, c.Metadata.DocumentID, "all chunks share one document id")
		assert.NotEmpty(t, c.Content)
		assert.LessOrEqual(t, len(c.Content), 200)
	}
}

func TestChunk_OverlapCarriesText(t *testing.T) {
	svc := newTestService(100, 50)

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("Common words repeat across boundaries here. ")
	}

	chunks, err := svc.Chunk(sb.String(), "overlap.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share text because the window carries a tail
	tail := chunks[0].Content[len(chunks[0].Content)-20:]
	assert.Contains(t, chunks[1].Content, strings.TrimSpace(tail))
}

func TestChunk_HardCutUnbrokenText(t *testing.T) {
	svc := newTestService(100, 20)

	// No separators at all: must still terminate and consume everything
	input := strings.Repeat("a", 95) + "\n" + strings.Repeat("b", 350)
	chunks, err := svc.Chunk(input, "wall.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	joined := strings.Join(collectContents(chunks), "")
	assert.Contains(t, joined, strings.Repeat("b", 100))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 100)
	}
}

func TestChunk_ExtraMetadataPreserved(t *testing.T) {
	svc := newTestService(1000, 200)

	extra := map[string]any{"author": "somebody", "tag": "research"}
	chunks, err := svc.Chunk("Some reasonable document content here.", "tagged.txt", models.FileTypeText, extra)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "somebody", chunks[0].Metadata.Extra["author"])
	assert.Equal(t, "research", chunks[0].Metadata.Extra["tag"])
	// Generated fields live outside the Extra map and cannot be shadowed
	assert.NotEmpty(t, chunks[0].Metadata.DocumentID)
}

func TestChunk_DistinctDocumentIDsPerCall(t *testing.T) {
	svc := newTestService(1000, 200)

	first, err := svc.Chunk("Identical content for both calls.", "same.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	second, err := svc.Chunk("Identical content for both calls.", "same.txt", models.FileTypeText, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first[0].Metadata.DocumentID, second[0].Metadata.DocumentID)
}

func TestChunk_LineBoundariesPreferred(t *testing.T) {
	svc := newTestService(80, 0)

	line1 := "First paragraph with enough words to stand alone as text."
	line2 := "Second paragraph also has plenty of words inside it, yes."
	chunks, err := svc.Chunk(line1+"\n\n"+line2, "paras.txt", models.FileTypeText, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, line1, strings.TrimSpace(chunks[0].Content))
	assert.Equal(t, line2, strings.TrimSpace(chunks[1].Content))
}

func collectContents(chunks []models.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
