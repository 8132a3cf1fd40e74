// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/twobob/blockduel/network"
)

// Session is one connected player. RoomID and Seat are set while the
// player occupies a room.
type Session struct {
	ID         string
	Conn       network.Connection
	PlayerName string
	RoomID     string
	Seat       int
	CreatedAt  time.Time
	LastActive time.Time

	mutex    sync.RWMutex
	latency  time.Duration
	pingSent time.Time
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// MarkPing records the send time of an outstanding latency probe.
func (s *Session) MarkPing(at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pingSent = at
}

// ObservePong resolves the outstanding probe into a half-round-trip
// estimate. Diagnostics only; it never feeds the simulation.
func (s *Session) ObservePong(at time.Time) time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.pingSent.IsZero() {
		return s.latency
	}
	s.latency = at.Sub(s.pingSent) / 2
	s.pingSent = time.Time{}
	return s.latency
}

// Latency returns the last half-round-trip estimate.
func (s *Session) Latency() time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.latency
}

// Manager tracks live sessions by ID.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
