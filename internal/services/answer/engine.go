package answer

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/conversation"
)

// Retriever is the slice of the vector index the engine needs
type Retriever interface {
	Search(ctx context.Context, query string, k int, filter *models.SearchFilter) ([]models.ScoredRecord, error)
}

// Engine answers questions over the document collection. The conversational
// path threads per-session history through the prompt and records the new
// turn on success; the stateless path never touches history.
type Engine struct {
	retriever    Retriever
	history      *conversation.Store
	chat         interfaces.LLMService
	logger       arbor.ILogger
	topK         int
	maxContext   int
	previewChars int
}

// NewEngine creates an answer engine
func NewEngine(retriever Retriever, history *conversation.Store, chat interfaces.LLMService, cfg *common.RetrievalConfig, logger arbor.ILogger) *Engine {
	return &Engine{
		retriever:    retriever,
		history:      history,
		chat:         chat,
		logger:       logger,
		topK:         cfg.TopK,
		maxContext:   cfg.MaxContextChars,
		previewChars: cfg.SourcePreviewChars,
	}
}

// Answer runs the conversational strategy: retrieve, prompt with prior
// history, call the model once, and append the turn to the session only
// when generation succeeded.
func (e *Engine) Answer(ctx context.Context, question, sessionID string) (*models.Answer, error) {
	records, err := e.retriever.Search(ctx, question, e.topK, nil)
	if err != nil {
		return nil, err
	}

	messages := e.buildMessages(records, e.history.Get(sessionID), question)

	response, err := e.chat.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// The provider returned after cancellation; treat as failed so the
		// session history stays untouched
		return nil, &models.GenerationError{Provider: "chat", Err: err}
	}

	e.history.Append(sessionID, question, response)

	e.logger.Debug().
		Str("session_id", sessionID).
		Int("sources", len(records)).
		Int("history_turns", e.history.Len(sessionID)).
		Msg("Conversational answer generated")

	return &models.Answer{
		Text:     response,
		Sources:  e.buildSources(records, false),
		Question: question,
	}, nil
}

// AnswerStateless runs the one-shot strategy: no history is read or
// written, and sources carry their similarity scores. k <= 0 falls back to
// the configured top-k.
func (e *Engine) AnswerStateless(ctx context.Context, question string, k int) (*models.Answer, error) {
	if k <= 0 {
		k = e.topK
	}

	records, err := e.retriever.Search(ctx, question, k, nil)
	if err != nil {
		return nil, err
	}

	messages := e.buildMessages(records, nil, question)

	response, err := e.chat.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Int("sources", len(records)).
		Msg("Stateless answer generated")

	return &models.Answer{
		Text:     response,
		Sources:  e.buildSources(records, true),
		Question: question,
	}, nil
}

// buildMessages assembles the chat transcript: system prompt with retrieved
// context, prior turns oldest first, then the new question.
func (e *Engine) buildMessages(records []models.ScoredRecord, history []models.ConversationTurn, question string) []interfaces.Message {
	messages := make([]interfaces.Message, 0, len(history)*2+2)
	messages = append(messages, interfaces.Message{
		Role:    "system",
		Content: buildSystemPrompt(records, e.maxContext),
	})
	for _, turn := range history {
		messages = append(messages,
			interfaces.Message{Role: "user", Content: turn.Question},
			interfaces.Message{Role: "assistant", Content: turn.Answer},
		)
	}
	return append(messages, interfaces.Message{Role: "user", Content: question})
}

// buildSources converts retrieved records to answer citations with a
// bounded content preview.
func (e *Engine) buildSources(records []models.ScoredRecord, withScores bool) []models.Source {
	sources := make([]models.Source, len(records))
	for i, r := range records {
		preview := truncateBytes(r.Record.Content, e.previewChars)
		sources[i] = models.Source{
			Content:    preview,
			Metadata:   r.Record.Metadata,
			Source:     r.Record.Metadata.Source,
			ChunkIndex: r.Record.Metadata.ChunkIndex,
		}
		if withScores {
			sources[i].RelevanceScore = r.Similarity
		}
	}
	return sources
}
