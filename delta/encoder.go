// delta/encoder.go
package delta

import (
	"time"

	"github.com/twobob/blockduel/game"
)

// Partition flags the four top-level slices of room state that can change
// independently. Mutating operations mark partitions dirty; the encoder
// never re-serializes whole rooms to detect changes.
type Partition uint8

const (
	PartSeat1 Partition = 1 << iota
	PartSeat2
	PartStarted
	PartWinner

	PartAll = PartSeat1 | PartSeat2 | PartStarted | PartWinner
)

// RoomView is the encoder's read-only view of a room, captured under the
// room's lock.
type RoomView struct {
	Seat1   *game.Snapshot
	Seat2   *game.Snapshot
	Started bool
	Winner  game.Winner
}

// Update is one sync message. A full update carries every partition; a
// delta carries only the partitions that changed since the last emission.
type Update struct {
	RoomID    string         `json:"roomId"`
	Timestamp int64          `json:"timestamp"`
	Full      bool           `json:"full,omitempty"`
	Seat1     *game.Snapshot `json:"seat1,omitempty"`
	Seat2     *game.Snapshot `json:"seat2,omitempty"`
	Started   *bool          `json:"started,omitempty"`
	Winner    *string        `json:"winner,omitempty"`
}

// Encoder tracks dirty partitions for one room and stamps every emission
// with a strictly monotonic timestamp.
type Encoder struct {
	roomID  string
	dirty   Partition
	emitted bool
	lastTS  int64
}

func NewEncoder(roomID string) *Encoder {
	return &Encoder{roomID: roomID}
}

// Mark records that a partition's value changed.
func (e *Encoder) Mark(p Partition) {
	e.dirty |= p
}

// Dirty reports whether any partition awaits emission.
func (e *Encoder) Dirty() bool {
	return e.dirty != 0
}

// Reset forgets the emission history so the next encode sends full state.
// Used on game reset.
func (e *Encoder) Reset() {
	e.dirty = 0
	e.emitted = false
}

// Encode produces the next update, or nil when nothing changed. The first
// emission for a room is always full state regardless of dirty flags.
func (e *Encoder) Encode(view RoomView, now time.Time) *Update {
	if !e.emitted {
		return e.EncodeFull(view, now)
	}
	if e.dirty == 0 {
		return nil
	}

	u := &Update{
		RoomID:    e.roomID,
		Timestamp: e.stamp(now),
	}
	if e.dirty&PartSeat1 != 0 {
		u.Seat1 = view.Seat1
	}
	if e.dirty&PartSeat2 != 0 {
		u.Seat2 = view.Seat2
	}
	if e.dirty&PartStarted != 0 {
		started := view.Started
		u.Started = &started
	}
	if e.dirty&PartWinner != 0 {
		winner := string(view.Winner)
		u.Winner = &winner
	}
	e.dirty = 0
	return u
}

// EncodeFull produces a full-state update unconditionally, clearing the
// dirty set. Used for the first emission and for game start.
func (e *Encoder) EncodeFull(view RoomView, now time.Time) *Update {
	started := view.Started
	winner := string(view.Winner)
	u := &Update{
		RoomID:    e.roomID,
		Timestamp: e.stamp(now),
		Full:      true,
		Seat1:     view.Seat1,
		Seat2:     view.Seat2,
		Started:   &started,
		Winner:    &winner,
	}
	e.dirty = 0
	e.emitted = true
	return u
}

func (e *Encoder) stamp(now time.Time) int64 {
	ts := now.UnixMilli()
	if ts <= e.lastTS {
		ts = e.lastTS + 1
	}
	e.lastTS = ts
	return ts
}
