// state/waiting_state.go
package state

import (
	"github.com/twobob/blockduel/logger"
)

// WaitingState is the ready-up phase. Seats join and ready here; when
// both seats are ready the room moves to playing.
type WaitingState struct {
	RoomStateBase
}

// NewWaitingState creates the ready-up phase for a room.
func NewWaitingState(room RoomContext) *WaitingState {
	return &WaitingState{
		RoomStateBase: RoomStateBase{
			ID:   StateWaiting,
			Room: room,
		},
	}
}

func (s *WaitingState) HandleReady(seat int) {
	s.Room.MarkReady(seat)

	if s.Room.OccupiedSeats() == 2 && s.Room.ReadySeats() == 2 {
		logger.Log.Infof("room %s: both seats ready, starting game", s.Room.GetID())
		s.Room.ChangeState(NewPlayingState(s.Room))
	}
}
