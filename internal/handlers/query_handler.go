package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/answer"
	"github.com/tobyvann/lectern/internal/services/vectorindex"
)

// QueryHandler handles stateless question answering and raw similarity
// search HTTP requests
type QueryHandler struct {
	engine *answer.Engine
	index  *vectorindex.Service
	logger arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(engine *answer.Engine, index *vectorindex.Service, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		engine: engine,
		index:  index,
		logger: logger,
	}
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// QueryHandler handles POST /api/query requests: one-shot answers with
// scored sources and no session state.
func (h *QueryHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode query request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "Question field is required")
		return
	}

	result, err := h.engine.AnswerStateless(r.Context(), req.Question, req.TopK)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate stateless answer")
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"answer":   result.Text,
		"sources":  result.Sources,
		"question": result.Question,
	})
}

type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	DocumentID string `json:"document_id"`
	Source     string `json:"source"`
	FileType   string `json:"file_type"`
}

type searchResult struct {
	Content    string               `json:"content"`
	Metadata   models.ChunkMetadata `json:"metadata"`
	Similarity float64              `json:"similarity"`
}

// SearchHandler handles POST /api/search requests: raw similarity search
// without LLM involvement.
func (h *QueryHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode search request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, http.StatusBadRequest, "Query field is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	var filter *models.SearchFilter
	if req.DocumentID != "" || req.Source != "" || req.FileType != "" {
		filter = &models.SearchFilter{
			DocumentID: req.DocumentID,
			Source:     req.Source,
			FileType:   models.FileType(req.FileType),
		}
	}

	records, err := h.index.Search(r.Context(), req.Query, req.TopK, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Similarity search failed")
		writeServiceError(w, err)
		return
	}

	results := make([]searchResult, len(records))
	for i, rec := range records {
		results[i] = searchResult{
			Content:    rec.Record.Content,
			Metadata:   rec.Record.Metadata,
			Similarity: rec.Similarity,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
		"count":   len(results),
	})
}
