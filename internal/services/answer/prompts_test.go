package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/tobyvann/lectern/internal/models"
)

func TestTruncateBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"multibyte cut backs off", "日本語", 4, "日"},
		{"multibyte cut on boundary", "日本語", 6, "日本"},
		{"zero limit", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBytes(tt.input, tt.n)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestBuildContextTextKeepsRuneBoundary(t *testing.T) {
	records := []models.ScoredRecord{
		{
			Record: &models.VectorRecord{
				Content:  strings.Repeat("語", 100),
				Metadata: models.ChunkMetadata{Source: "jp.txt"},
			},
			Similarity: 0.9,
		},
	}

	// 49 bytes lands mid-rune: 17 bytes of attribution header then 3-byte runes
	got := buildContextText(records, 49)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 47, len(got), "cut backs off to the nearest rune start")
}
