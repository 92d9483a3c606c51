// ABOUTME: Per-session state container and session manager
// ABOUTME: Holds the turn cache and self-correction state, never globals
package core

import (
	"strings"
	"sync"

	"github.com/LuisDee/sqlscout/internal/models"
)

// NormalizeQuestion trims, case-folds, and collapses whitespace so that
// trivial casing or spacing variation maps to the same cache key.
func NormalizeQuestion(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}

// Session holds all mutable per-conversation state: the current question's
// embedding and retrieval cache, and the self-correction control fields.
// Everything scoped to one question resets when a new question starts;
// the tool-call counter deliberately does not (it is the session-wide
// cost ceiling).
type Session struct {
	mu sync.Mutex

	id string

	// Per-question state
	currentQuestion string
	questionVector  []float64
	retrieval       *models.RetrievalResult
	attempts        int
	circuitOpen     bool
	circuitReason   string
	fingerprints    []string

	// Per-session state
	toolCalls int
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// BeginQuestion marks the start of work on a (normalized) question.
// A question different from the current one resets every per-question
// field. Returns true when a reset happened.
func (s *Session) BeginQuestion(normalized string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if normalized == s.currentQuestion {
		return false
	}

	s.currentQuestion = normalized
	s.questionVector = nil
	s.retrieval = nil
	s.attempts = 0
	s.circuitOpen = false
	s.circuitReason = ""
	s.fingerprints = nil
	return true
}

// CurrentQuestion returns the normalized question in progress
func (s *Session) CurrentQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentQuestion
}

// QuestionVector returns the cached embedding for the current question,
// nil when not yet computed
func (s *Session) QuestionVector() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionVector
}

// SetQuestionVector caches the current question's embedding
func (s *Session) SetQuestionVector(vector []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionVector = vector
}

// Retrieval returns the cached fan-out result for the current question
func (s *Session) Retrieval() *models.RetrievalResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retrieval
}

// SetRetrieval caches the fan-out result for the current question
func (s *Session) SetRetrieval(result *models.RetrievalResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrieval = result
}

// CountToolCall increments the session-wide invocation counter and
// reports whether the ceiling is exceeded
func (s *Session) CountToolCall(limit int) (exceeded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolCalls++
	return s.toolCalls > limit
}

// ToolCalls returns the session-wide invocation count
func (s *Session) ToolCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolCalls
}

// IncrementAttempt bumps the validation attempt counter
func (s *Session) IncrementAttempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	return s.attempts
}

// Attempts returns the validation attempt count for the current question
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// TripCircuit opens the circuit breaker with a reason
func (s *Session) TripCircuit(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circuitOpen = true
	s.circuitReason = reason
}

// CircuitOpen reports the breaker state and its reason
func (s *Session) CircuitOpen() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.circuitOpen, s.circuitReason
}

// RecordFingerprint appends an invocation fingerprint to the bounded FIFO
// and reports whether the window is full of identical entries - the
// signature of a stuck retry loop.
func (s *Session) RecordFingerprint(fp string, window int) (repeated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fingerprints = append(s.fingerprints, fp)
	if len(s.fingerprints) > window {
		s.fingerprints = s.fingerprints[len(s.fingerprints)-window:]
	}
	if len(s.fingerprints) < window {
		return false
	}
	for _, f := range s.fingerprints {
		if f != fp {
			return false
		}
	}
	return true
}

// Manager hands out per-session containers keyed by session id. State
// lives here rather than in package globals so concurrent sessions in
// one process never share control state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for an id, creating it on first use
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{id: id}
	m.sessions[id] = s
	return s
}

// Remove discards a session
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
