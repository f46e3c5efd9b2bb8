package chunker

import (
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/models"
)

// separators in preference order; the final "" forces a hard character cut
// so splitting always terminates.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", ", ", " ", ""}

// Service splits normalized document text into overlapping chunks that
// preserve natural boundaries where possible.
type Service struct {
	chunkSize int
	overlap   int
	logger    arbor.ILogger
}

// NewService creates a chunker with the configured window size and overlap
func NewService(cfg *common.ChunkingConfig, logger arbor.ILogger) *Service {
	return &Service{
		chunkSize: cfg.Size,
		overlap:   cfg.Overlap,
		logger:    logger,
	}
}

// Chunk normalizes text and splits it into chunks carrying full provenance
// metadata. A single document ID is generated per call, so every chunk of
// one ingestion shares it. Returns EmptyContentError when the text reduces
// to nothing after normalization.
func (s *Service) Chunk(text, source string, fileType models.FileType, extra map[string]any) ([]models.Chunk, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, &models.EmptyContentError{Source: source}
	}

	now := time.Now().UTC()
	documentID := common.NewDocumentID(source, now)

	pieces := s.split(normalized, separators)
	merged := s.merge(pieces)

	chunks := make([]models.Chunk, 0, len(merged))
	for i, content := range merged {
		chunks = append(chunks, models.Chunk{
			Content: content,
			Metadata: models.ChunkMetadata{
				Source:          source,
				DocumentID:      documentID,
				FileType:        fileType,
				ProcessedAt:     now,
				TotalCharacters: len(normalized),
				ChunkIndex:      i,
				TotalChunks:     len(merged),
				ChunkSize:       len(content),
				Extra:           extra,
			},
		})
	}

	s.logger.Debug().
		Str("source", source).
		Str("document_id", documentID).
		Int("chunks", len(chunks)).
		Int("characters", len(normalized)).
		Msg("Document chunked")

	return chunks, nil
}

// Normalize cleans raw extracted text: strips NUL bytes, collapses
// whitespace runs within each line, and drops lines that are empty or a
// single character (page furniture, stray punctuation).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) <= 1 {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// split recursively divides text into pieces no longer than chunkSize,
// preferring the earliest separator in the preference order that appears
// in the text.
func (s *Service) split(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	sep := seps[len(seps)-1]
	rest := seps
	for i, candidate := range seps {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		// Hard cut: no separator left, slice the text directly
		var out []string
		for len(text) > s.chunkSize {
			out = append(out, text[:s.chunkSize])
			text = text[s.chunkSize:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	var out []string
	for _, part := range splitKeepSeparator(text, sep) {
		if len(part) <= s.chunkSize {
			out = append(out, part)
		} else {
			out = append(out, s.split(part, rest)...)
		}
	}
	return out
}

// splitKeepSeparator splits on sep, keeping the separator attached to the
// preceding part so merged chunks read naturally.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// merge greedily joins adjacent pieces into chunks up to chunkSize, carrying
// a tail of up to overlap characters into the next chunk.
func (s *Service) merge(pieces []string) []string {
	var chunks []string
	var window []string
	windowLen := 0

	flush := func() {
		if windowLen == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(window, ""))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		// Retain trailing pieces within the overlap budget
		kept := make([]string, 0, len(window))
		keptLen := 0
		for i := len(window) - 1; i >= 0; i-- {
			if keptLen+len(window[i]) > s.overlap {
				break
			}
			kept = append([]string{window[i]}, kept...)
			keptLen += len(window[i])
		}
		window = kept
		windowLen = keptLen
	}

	for _, piece := range pieces {
		if windowLen+len(piece) > s.chunkSize && windowLen > 0 {
			flush()
			// Drop the overlap tail entirely if the incoming piece alone
			// would overflow the window
			if windowLen+len(piece) > s.chunkSize {
				window = nil
				windowLen = 0
			}
		}
		window = append(window, piece)
		windowLen += len(piece)
	}

	if windowLen > 0 {
		chunk := strings.TrimSpace(strings.Join(window, ""))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	if len(chunks) == 0 {
		// Normalized input was non-empty, so never return zero chunks
		chunks = append(chunks, strings.TrimSpace(strings.Join(pieces, "")))
	}
	return chunks
}
