// input/buffer.go
package input

import (
	"time"
)

// Action is the closed set of game inputs. Payloads are validated into
// this type at the network boundary; nothing else reaches a room.
type Action string

const (
	ActionMoveLeft  Action = "move-left"
	ActionMoveRight Action = "move-right"
	ActionMoveDown  Action = "move-down"
	ActionRotate    Action = "rotate"
	ActionHardDrop  Action = "hard-drop"
)

// ParseAction validates a raw action string.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionMoveLeft, ActionMoveRight, ActionMoveDown, ActionRotate, ActionHardDrop:
		return Action(raw), true
	default:
		return "", false
	}
}

// Event is one timestamped input awaiting application.
type Event struct {
	Action     Action
	ClientTime int64
	ReceivedAt time.Time
	processed  bool
}

const (
	// DefaultCapacity bounds each seat's queue; the oldest unprocessed
	// entry is evicted on overflow.
	DefaultCapacity = 50
	// DefaultStaleness is the age past which a buffered input is dropped
	// at drain time instead of applied.
	DefaultStaleness = 1000 * time.Millisecond
)

// Buffer is one seat's ordered queue of pending inputs. It is not safe
// for concurrent use; the owning room serializes access.
type Buffer struct {
	events    []*Event
	capacity  int
	staleness time.Duration
}

// NewBuffer returns a buffer with the default capacity and staleness
// window.
func NewBuffer() *Buffer {
	return &Buffer{
		capacity:  DefaultCapacity,
		staleness: DefaultStaleness,
	}
}

// Push appends an event, evicting the oldest entry when full.
func (b *Buffer) Push(e *Event) {
	if len(b.events) >= b.capacity {
		b.events = b.events[1:]
	}
	b.events = append(b.events, e)
}

// Drain applies every unprocessed entry in arrival order. Entries older
// than the staleness window at drain time are discarded without being
// applied; everything drained is purged afterwards. Applying the same
// ordered sequence to the same initial state is deterministic.
func (b *Buffer) Drain(now time.Time, apply func(Action)) int {
	applied := 0
	for _, e := range b.events {
		if e.processed {
			continue
		}
		e.processed = true
		if now.Sub(e.ReceivedAt) > b.staleness {
			continue
		}
		apply(e.Action)
		applied++
	}
	b.purge()
	return applied
}

// Len reports the number of pending entries.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Clear discards all pending entries.
func (b *Buffer) Clear() {
	b.events = b.events[:0]
}

func (b *Buffer) purge() {
	kept := b.events[:0]
	for _, e := range b.events {
		if !e.processed {
			kept = append(kept, e)
		}
	}
	b.events = kept
}
