// state/playing_state.go
package state

import (
	"github.com/twobob/blockduel/logger"
)

// ticksPerGravity converts the room's 10Hz update loop into the 1000ms
// automatic descent cadence.
const ticksPerGravity = 10

// PlayingState runs the live game: it pumps buffered inputs through the
// engine on every update and applies gravity once per second. Winner
// resolution happens inside the room's placement pass, which transitions
// the machine to finished.
type PlayingState struct {
	RoomStateBase
	gravityTicks int
}

// NewPlayingState creates the live phase for a room.
func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   StatePlaying,
			Room: room,
		},
	}
}

func (s *PlayingState) OnEnter() {
	logger.Log.Infof("room %s: game started", s.Room.GetID())
	s.Room.StartGame()
}

func (s *PlayingState) OnUpdate() {
	s.Room.DrainInputs()

	s.gravityTicks++
	if s.gravityTicks >= ticksPerGravity {
		s.gravityTicks = 0
		s.Room.StepGravity()
	}
}

// HandleAction buffers the input and drains immediately so a live
// connection never waits for the next update tick.
func (s *PlayingState) HandleAction(seat int, e *InputEvent) {
	s.Room.BufferInput(seat, e)
	s.Room.DrainInputs()
}
