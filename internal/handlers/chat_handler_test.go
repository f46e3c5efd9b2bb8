package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyvann/lectern/internal/common"
	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
	"github.com/tobyvann/lectern/internal/services/answer"
	"github.com/tobyvann/lectern/internal/services/conversation"
)

type stubRetriever struct{}

func (stubRetriever) Search(ctx context.Context, query string, k int, filter *models.SearchFilter) ([]models.ScoredRecord, error) {
	return nil, nil
}

type stubChat struct {
	err error
}

func (s *stubChat) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "stub answer", nil
}
func (s *stubChat) ModelName() string                     { return "stub" }
func (s *stubChat) HealthCheck(ctx context.Context) error { return nil }
func (s *stubChat) Close() error                          { return nil }

func newTestChatHandler(chatErr error) (*ChatHandler, *conversation.Store) {
	logger := common.GetLogger()
	store := conversation.NewStore(logger)
	cfg := &common.RetrievalConfig{TopK: 5, MaxContextChars: 4000, SourcePreviewChars: 200}
	engine := answer.NewEngine(stubRetriever{}, store, &stubChat{err: chatErr}, cfg, logger)
	return NewChatHandler(engine, store, logger), store
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChatHandlerGeneratesSessionID(t *testing.T) {
	h, store := newTestChatHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"what is this?"}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "stub answer", body["answer"])

	sessionID, _ := body["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, 1, store.Len(sessionID))
}

func TestChatHandlerReusesSessionID(t *testing.T) {
	h, store := newTestChatHandler(nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q","session_id":"fixed"}`))
		rec := httptest.NewRecorder()
		h.ChatHandler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 2, store.Len("fixed"))
}

func TestChatHandlerRejectsMissingQuestion(t *testing.T) {
	h, _ := newTestChatHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"session_id":"s1"}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandlerRejectsWrongMethod(t *testing.T) {
	h, _ := newTestChatHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatHandlerMapsGenerationError(t *testing.T) {
	h, store := newTestChatHandler(&models.GenerationError{Provider: "stub", Err: assert.AnError})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q","session_id":"s1"}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, store.Len("s1"), "failed generation records no turn")
}

func TestSessionRoutes(t *testing.T) {
	h, store := newTestChatHandler(nil)
	store.Append("s1", "q1", "a1")

	// History
	req := httptest.NewRequest(http.MethodGet, "/api/chat/sessions/s1/history", nil)
	rec := httptest.NewRecorder()
	h.SessionRoutesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["turns"])

	// Clear
	req = httptest.NewRequest(http.MethodPost, "/api/chat/sessions/s1/clear", nil)
	rec = httptest.NewRecorder()
	h.SessionRoutesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Len("s1"))

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/chat/sessions/s1", nil)
	rec = httptest.NewRecorder()
	h.SessionRoutesHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete again -> 404
	req = httptest.NewRequest(http.MethodDelete, "/api/chat/sessions/s1", nil)
	rec = httptest.NewRecorder()
	h.SessionRoutesHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSessions(t *testing.T) {
	h, store := newTestChatHandler(nil)
	store.Append("a", "q", "a")
	store.Append("b", "q", "a")

	req := httptest.NewRequest(http.MethodGet, "/api/chat/sessions", nil)
	rec := httptest.NewRecorder()
	h.ListSessionsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
}
