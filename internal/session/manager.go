// Package session keeps the in-memory interaction sessions.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/drill/internal/model"
)

// DefaultIdle is how long an untouched session is kept.
const DefaultIdle = 12 * time.Hour

// Manager maps session tokens to their state. Sessions live only in memory
// and are discarded once idle for longer than the configured timeout.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	idle     time.Duration
	now      func() time.Time
}

// NewManager creates a Manager. idle <= 0 means DefaultIdle.
func NewManager(idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Manager{
		sessions: make(map[string]*model.Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Acquire returns the session for token, creating a new one when the token
// is empty, malformed, unknown or expired. The second result reports whether
// a new session was created.
func (m *Manager) Acquire(token string) (*model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.pruneLocked(now)

	if _, err := uuid.Parse(token); err == nil {
		if s, ok := m.sessions[token]; ok {
			s.LastSeen = now
			return s, false
		}
	}

	s := model.NewSession(uuid.NewString())
	s.LastSeen = now
	m.sessions[s.ID] = s
	slog.Debug("started session", "session", s.ID)
	return s, true
}

// End discards a session. A later Acquire with the same token starts a
// fresh one.
func (m *Manager) End(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) pruneLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen) > m.idle {
			delete(m.sessions, id)
			slog.Debug("expired session", "session", id)
		}
	}
}
