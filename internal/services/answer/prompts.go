package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tobyvann/lectern/internal/models"
)

// noContextMarker is sent instead of retrieved text when the collection
// produced nothing, so the model can decline to answer rather than invent.
const noContextMarker = "No relevant context was found in the document collection."

const systemPromptTemplate = `You are a research assistant answering questions about a document collection.

Use only the context below to answer. If the context does not contain the information needed, say that you cannot answer from the available documents instead of guessing.

Context:
%s`

// buildSystemPrompt assembles the system message from retrieved records,
// truncating the combined context to at most maxChars characters.
func buildSystemPrompt(records []models.ScoredRecord, maxChars int) string {
	return fmt.Sprintf(systemPromptTemplate, buildContextText(records, maxChars))
}

// buildContextText joins retrieved chunk contents with source attribution,
// stopping once the budget is spent. A partial final chunk is truncated
// rather than dropped so the budget is always usable.
func buildContextText(records []models.ScoredRecord, maxChars int) string {
	if len(records) == 0 {
		return noContextMarker
	}

	var sb strings.Builder
	for i, r := range records {
		entry := fmt.Sprintf("[Source: %s]\n%s", r.Record.Metadata.Source, r.Record.Content)
		if i > 0 {
			entry = "\n\n" + entry
		}
		remaining := maxChars - sb.Len()
		if remaining <= 0 {
			break
		}
		if len(entry) > remaining {
			sb.WriteString(truncateBytes(entry, remaining))
			break
		}
		sb.WriteString(entry)
	}

	if sb.Len() == 0 {
		return noContextMarker
	}
	return sb.String()
}

// truncateBytes cuts s to at most n bytes without splitting a UTF-8 rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
