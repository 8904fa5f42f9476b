package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/careassist/server/internal/memory"
)

// Session is one user's conversation. It exclusively owns its memory window;
// Lock serializes in-flight requests so only one answer pipeline mutates the
// window at a time.
type Session struct {
	ID           string
	Window       *memory.Window
	LastActivity time.Time
	ExpiresAt    time.Time

	mu sync.Mutex
}

// acquires the session for a single in-flight request
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// manages conversation sessions in memory; sessions are ephemeral and do not
// survive a process restart
type Manager struct {
	sessions  map[string]*Session
	mu        sync.RWMutex
	ttl       time.Duration
	exchanges int
}

// returns a new session manager; exchanges is the per-session history depth
func NewManager(ttl time.Duration, exchanges int) *Manager {
	m := &Manager{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		exchanges: exchanges,
	}

	// start cleanup goroutine
	go m.cleanupExpiredSessions()

	return m
}

// returns a new random session ID
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

// creates a new session with an empty conversation window
func (m *Manager) CreateSession() (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:           id,
		Window:       memory.NewWindow(m.exchanges),
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session, nil
}

// retrieves a session by ID
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, false
	}

	return session, true
}

// extends a session's lifetime after successful activity
func (m *Manager) Touch(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return
	}

	now := time.Now()
	session.LastActivity = now
	session.ExpiresAt = now.Add(m.ttl)
}

// removes a session
func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// returns the number of active sessions
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// runs periodically to remove expired sessions
func (m *Manager) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()

		for id, session := range m.sessions {
			if now.After(session.ExpiresAt) {
				delete(m.sessions, id)
			}
		}

		m.mu.Unlock()
	}
}
