package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/services/documents"
)

// DocumentHandler handles document ingestion and collection management
// HTTP requests
type DocumentHandler struct {
	service *documents.Service
	logger  arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service *documents.Service, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

type textIngestRequest struct {
	Text   string         `json:"text"`
	Source string         `json:"source"`
	Extra  map[string]any `json:"metadata,omitempty"`
}

// IngestTextHandler handles POST /api/documents/text requests
func (h *DocumentHandler) IngestTextHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	// Cap the body read at the ingestion ceiling plus JSON overhead
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxFileSizeBytes()+64*1024)

	var req textIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode text ingest request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Source == "" {
		WriteError(w, http.StatusBadRequest, "Source field is required")
		return
	}

	result, err := h.service.ProcessText(r.Context(), req.Text, req.Source, req.Extra)
	if err != nil {
		h.logger.Error().Err(err).Str("source", req.Source).Msg("Text ingestion failed")
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

type pdfIngestRequest struct {
	Content  string         `json:"content"` // base64-encoded PDF bytes
	FileName string         `json:"file_name"`
	Extra    map[string]any `json:"metadata,omitempty"`
}

// IngestPDFHandler handles POST /api/documents/pdf requests. The PDF is
// carried base64-encoded in the JSON body; the size ceiling is enforced on
// the encoded payload before decoding.
func (h *DocumentHandler) IngestPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	// base64 inflates by 4/3, allow for that plus JSON overhead
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxFileSizeBytes()*4/3+64*1024)

	var req pdfIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode PDF ingest request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FileName == "" {
		WriteError(w, http.StatusBadRequest, "File name is required")
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Content must be base64-encoded PDF bytes")
		return
	}

	result, err := h.service.ProcessPDF(r.Context(), content, req.FileName, req.Extra)
	if err != nil {
		h.logger.Error().Err(err).Str("file_name", req.FileName).Msg("PDF ingestion failed")
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// StatsHandler handles GET /api/documents/stats requests
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	stats := h.service.GetStats(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// ClearAllHandler handles DELETE /api/documents requests: drops the entire
// collection and every conversation session.
func (h *DocumentHandler) ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	if err := h.service.ClearAll(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear document collection")
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, "Document collection cleared")
}

// DocumentRoutesHandler dispatches DELETE /api/documents/{id}
func (h *DocumentHandler) DocumentRoutesHandler(w http.ResponseWriter, r *http.Request) {
	documentID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/documents/"), "/")
	if documentID == "" || strings.Contains(documentID, "/") {
		WriteError(w, http.StatusBadRequest, "Document id is required")
		return
	}

	if !RequireMethod(w, r, "DELETE") {
		return
	}

	deleted, err := h.service.DeleteDocument(r.Context(), documentID)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to delete document")
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"document_id":    documentID,
		"chunks_deleted": deleted,
	})
}
