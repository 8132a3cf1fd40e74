// state/interfaces.go
package state

import "github.com/twobob/blockduel/input"

// InputEvent aliases the buffered input type so phase implementations and
// the room agree on one event shape.
type InputEvent = input.Event

// RoomContext is the surface a Room exposes to its phases. Every method
// is called with the room's lock already held; implementations must not
// re-acquire it. This interface breaks the import cycle between room and
// state.
type RoomContext interface {
	GetID() string
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error

	OccupiedSeats() int
	ReadySeats() int

	// MarkReady flags a seat ready and deals it a fresh piece pair.
	MarkReady(seat int)
	// BufferInput enqueues a timestamped action on the seat's queue.
	BufferInput(seat int, e *InputEvent)
	// DrainInputs pumps every seat's buffered actions through the engine.
	DrainInputs()
	// StepGravity applies one automatic descent to each alive seat.
	StepGravity()
	// StartGame flips the started flag and emits the full-state game-start.
	StartGame()
	// ResetGame reinitializes both seats and clears winner/started.
	ResetGame()
}
