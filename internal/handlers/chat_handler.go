package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/answer"
	"github.com/tobyvann/lectern/internal/services/conversation"
)

// ChatHandler handles conversational question answering and session
// management HTTP requests
type ChatHandler struct {
	engine   *answer.Engine
	sessions *conversation.Store
	logger   arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine *answer.Engine, sessions *conversation.Store, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		engine:   engine,
		sessions: sessions,
		logger:   logger,
	}
}

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// ChatHandler handles POST /api/chat requests. A missing session id starts
// a new session; the generated id is returned so the client can continue it.
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "Question field is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.NewSessionID()
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Int("question_length", len(req.Question)).
		Msg("Processing chat request")

	result, err := h.engine.Answer(r.Context(), req.Question, sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to generate chat answer")
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"answer":     result.Text,
		"sources":    result.Sources,
		"question":   result.Question,
		"session_id": sessionID,
	})
}

// ListSessionsHandler handles GET /api/chat/sessions requests
func (h *ChatHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ids := h.sessions.ListSessions()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": ids,
		"count":    len(ids),
	})
}

// SessionRoutesHandler dispatches /api/chat/sessions/{id} and subpaths:
//
//	GET    /api/chat/sessions/{id}         - session summary
//	DELETE /api/chat/sessions/{id}         - delete session
//	GET    /api/chat/sessions/{id}/history - full turn history
//	POST   /api/chat/sessions/{id}/clear   - empty the history
func (h *ChatHandler) SessionRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chat/sessions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		WriteError(w, http.StatusBadRequest, "Session id is required")
		return
	}
	sessionID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getSession(w, sessionID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.deleteSession(w, sessionID)
	case len(parts) == 2 && parts[1] == "history" && r.Method == http.MethodGet:
		h.getHistory(w, sessionID)
	case len(parts) == 2 && parts[1] == "clear" && r.Method == http.MethodPost:
		h.clearSession(w, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ChatHandler) getSession(w http.ResponseWriter, sessionID string) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": sessionID,
		"turns":      h.sessions.Len(sessionID),
	})
}

func (h *ChatHandler) getHistory(w http.ResponseWriter, sessionID string) {
	turns := h.sessions.Get(sessionID)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": sessionID,
		"history":    turns,
		"turns":      len(turns),
	})
}

func (h *ChatHandler) clearSession(w http.ResponseWriter, sessionID string) {
	if !h.sessions.Clear(sessionID) {
		writeServiceError(w, &models.SessionNotFoundError{SessionID: sessionID})
		return
	}
	WriteSuccess(w, "Session history cleared")
}

func (h *ChatHandler) deleteSession(w http.ResponseWriter, sessionID string) {
	if !h.sessions.Delete(sessionID) {
		writeServiceError(w, &models.SessionNotFoundError{SessionID: sessionID})
		return
	}
	WriteSuccess(w, "Session deleted")
}
