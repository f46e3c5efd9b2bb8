package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Chat (conversational answers + session management)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)                   // POST
	mux.HandleFunc("/api/chat/sessions", s.app.ChatHandler.ListSessionsHandler)  // GET
	mux.HandleFunc("/api/chat/sessions/", s.app.ChatHandler.SessionRoutesHandler) // GET/DELETE /{id}, GET /{id}/history, POST /{id}/clear

	// API routes - Stateless answering and raw search
	mux.HandleFunc("/api/query", s.app.QueryHandler.QueryHandler)   // POST
	mux.HandleFunc("/api/search", s.app.QueryHandler.SearchHandler) // POST

	// API routes - Documents
	mux.HandleFunc("/api/documents/text", s.app.DocumentHandler.IngestTextHandler) // POST
	mux.HandleFunc("/api/documents/pdf", s.app.DocumentHandler.IngestPDFHandler)   // POST
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)     // GET
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ClearAllHandler)        // DELETE
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.DocumentRoutesHandler) // DELETE /{id}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler) // GET
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)   // GET

	return mux
}
