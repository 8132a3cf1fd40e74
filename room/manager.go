// room/manager.go
package room

import (
	"sync"

	"github.com/twobob/blockduel/logger"
)

// Manager is the room registry. Insert and remove are atomic with respect
// to concurrent join/leave for the same or different room identities.
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

// NewRoomManager creates an empty registry.
func NewRoomManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for the identity, creating it on first
// join.
func (m *Manager) GetOrCreate(id, gameMode string, broadcaster Broadcaster, recorder Recorder) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if r, exists := m.rooms[id]; exists {
		return r
	}
	r := NewRoom(id, gameMode, broadcaster, recorder)
	m.rooms[id] = r
	logger.Log.Infof("room %s created", id)
	return r
}

// GetRoom looks up a room.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	r, exists := m.rooms[id]
	return r, exists
}

// RemoveRoom closes and unregisters a room.
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if r, exists := m.rooms[id]; exists {
		r.Close()
		delete(m.rooms, id)
		logger.Log.Infof("room %s destroyed", id)
	}
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Rooms returns a snapshot of the live rooms.
func (m *Manager) Rooms() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// FlushAll flushes every room's outbound batch and reports how many
// rooms had updates. Driven by the process-wide flush timer.
func (m *Manager) FlushAll() int {
	flushed := 0
	for _, r := range m.Rooms() {
		if r.FlushBatch() {
			flushed++
		}
	}
	return flushed
}

// SweepIdle destroys every room with zero seats, covering missed
// disconnect notifications. Returns the number destroyed.
func (m *Manager) SweepIdle() int {
	empty := make([]string, 0)
	for _, r := range m.Rooms() {
		if r.SeatCount() == 0 {
			empty = append(empty, r.ID)
		}
	}
	for _, id := range empty {
		m.RemoveRoom(id)
	}
	if len(empty) > 0 {
		logger.Log.Infof("idle sweep destroyed %d room(s)", len(empty))
	}
	return len(empty)
}
