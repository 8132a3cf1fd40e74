// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/twobob/blockduel/room"
	"github.com/twobob/blockduel/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// Broadcaster fans messages out to connections. Sends are fire-and-forget
// with respect to the simulation: a failed send never blocks or rolls
// back game state.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToSession(sessionID string, msgID uint16, data []byte) error
}

// RoomBroadcaster resolves rooms and sessions through their managers.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	for _, s := range r.GetSessions() {
		if err := s.Send(msgID, data); err != nil {
			// The read loop notices the dead connection and removes the
			// seat; nothing to do here.
			continue
		}
	}

	return nil
}

func (b *RoomBroadcaster) BroadcastToSession(sessionID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return errors.New("session not found")
	}
	return s.Send(msgID, data)
}
