package room

import "time"

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
}

// SeatResult is the per-seat fact handed to the persistence collaborator
// when a game finishes.
type SeatResult struct {
	PlayerName string
	Score      int
	Lines      int
	Level      int
	Outcome    string // win/lose/draw
}

// Recorder receives finished-game facts. The room never writes to storage
// itself; recording is fire-and-forget with respect to the simulation.
type Recorder interface {
	RecordGameOver(roomID, gameMode string, duration time.Duration, results []SeatResult)
}
