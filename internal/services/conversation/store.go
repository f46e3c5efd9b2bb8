package conversation

import (
	"sort"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/tobyvann/lectern/internal/models"
)

// session holds one conversation's turns behind its own mutex so appends to
// one session serialize without blocking other sessions.
type session struct {
	mu    sync.Mutex
	turns []models.ConversationTurn
}

// Store keeps per-session conversation history in memory. History is lost on
// restart; sessions are unbounded and live until explicitly deleted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	logger   arbor.ILogger
}

// NewStore creates an empty conversation store
func NewStore(logger arbor.ILogger) *Store {
	return &Store{
		sessions: make(map[string]*session),
		logger:   logger,
	}
}

// getOrCreate returns the session, creating it on first use
func (s *Store) getOrCreate(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[sessionID] = sess
	return sess
}

// Append records one question/answer turn at the end of the session history
func (s *Store) Append(sessionID, question, answer string) {
	sess := s.getOrCreate(sessionID)
	sess.mu.Lock()
	sess.turns = append(sess.turns, models.ConversationTurn{Question: question, Answer: answer})
	sess.mu.Unlock()
}

// Get returns a copy of the session history in call order. Unknown sessions
// return an empty slice, never an error.
func (s *Store) Get(sessionID string) []models.ConversationTurn {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return []models.ConversationTurn{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]models.ConversationTurn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Len returns the number of turns in the session, zero for unknown ids
func (s *Store) Len(sessionID string) int {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

// Clear empties the session history but keeps the session alive.
// Reports whether the session existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	sess.mu.Lock()
	sess.turns = nil
	sess.mu.Unlock()

	s.logger.Debug().Str("session_id", sessionID).Msg("Conversation history cleared")
	return true
}

// Delete removes the session entirely. Reports whether it existed.
func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if ok {
		s.logger.Debug().Str("session_id", sessionID).Msg("Conversation session deleted")
	}
	return ok
}

// DeleteAll removes every session, returning how many were dropped
func (s *Store) DeleteAll() int {
	s.mu.Lock()
	n := len(s.sessions)
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	if n > 0 {
		s.logger.Warn().Int("sessions", n).Msg("All conversation sessions deleted")
	}
	return n
}

// ListSessions returns all known session ids, sorted for stable output
func (s *Store) ListSessions() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Count returns the number of active sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
