// state/finished_state.go
package state

import (
	"github.com/twobob/blockduel/logger"
)

// FinishedState holds the room after a game ends. The winner is frozen
// until a seat requests a rematch, which resets both simulations and
// returns to the ready-up phase.
type FinishedState struct {
	RoomStateBase
}

// NewFinishedState creates the post-game phase for a room.
func NewFinishedState(room RoomContext) *FinishedState {
	return &FinishedState{
		RoomStateBase: RoomStateBase{
			ID:   StateFinished,
			Room: room,
		},
	}
}

func (s *FinishedState) HandleNewGame(seat int) {
	logger.Log.Infof("room %s: rematch requested by seat %d", s.Room.GetID(), seat)
	s.Room.ResetGame()
	s.Room.ChangeState(NewWaitingState(s.Room))
}
