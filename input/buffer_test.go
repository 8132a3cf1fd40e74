// input/buffer_test.go
package input

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"move-left", "move-right", "move-down", "rotate", "hard-drop"} {
		action, ok := ParseAction(raw)
		assert.True(t, ok)
		assert.Equal(t, Action(raw), action)
	}

	_, ok := ParseAction("teleport")
	assert.False(t, ok)
	_, ok = ParseAction("")
	assert.False(t, ok)
}

func TestDrainAppliesInArrivalOrder(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	b.Push(&Event{Action: ActionMoveLeft, ReceivedAt: now})
	b.Push(&Event{Action: ActionRotate, ReceivedAt: now})
	b.Push(&Event{Action: ActionHardDrop, ReceivedAt: now})

	var got []Action
	applied := b.Drain(now, func(a Action) { got = append(got, a) })

	assert.Equal(t, 3, applied)
	assert.Equal(t, []Action{ActionMoveLeft, ActionRotate, ActionHardDrop}, got)
	assert.Equal(t, 0, b.Len(), "drained entries are purged")
}

func TestPushEvictsOldestOnOverflow(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	for i := 0; i < DefaultCapacity+3; i++ {
		b.Push(&Event{Action: ActionMoveLeft, ClientTime: int64(i), ReceivedAt: now})
	}

	assert.Equal(t, DefaultCapacity, b.Len())

	applied := b.Drain(now, func(Action) {})
	assert.Equal(t, DefaultCapacity, applied)
	assert.Equal(t, 0, b.Len())
}

func TestPushEvictionKeepsNewest(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	for i := 0; i < DefaultCapacity; i++ {
		b.Push(&Event{Action: ActionMoveLeft, ReceivedAt: now})
	}
	b.Push(&Event{Action: ActionHardDrop, ReceivedAt: now})

	var last Action
	b.Drain(now, func(a Action) { last = a })
	assert.Equal(t, ActionHardDrop, last)
}

func TestDrainDropsStaleEntries(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	b.Push(&Event{Action: ActionMoveLeft, ReceivedAt: now.Add(-2 * time.Second)})
	b.Push(&Event{Action: ActionRotate, ReceivedAt: now.Add(-500 * time.Millisecond)})

	var got []Action
	applied := b.Drain(now, func(a Action) { got = append(got, a) })

	assert.Equal(t, 1, applied)
	assert.Equal(t, []Action{ActionRotate}, got)
	assert.Equal(t, 0, b.Len(), "stale entries are purged, not retried")
}

func TestDrainExactlyAtWindowIsApplied(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	b.Push(&Event{Action: ActionMoveDown, ReceivedAt: now.Add(-DefaultStaleness)})

	applied := b.Drain(now, func(Action) {})
	assert.Equal(t, 1, applied)
}

func TestDrainEmptyBuffer(t *testing.T) {
	b := NewBuffer()
	applied := b.Drain(time.Now(), func(Action) {
		t.Fatal("apply must not run on an empty buffer")
	})
	assert.Equal(t, 0, applied)
}

func TestClear(t *testing.T) {
	b := NewBuffer()
	now := time.Now()
	b.Push(&Event{Action: ActionMoveLeft, ReceivedAt: now})
	b.Push(&Event{Action: ActionMoveRight, ReceivedAt: now})

	b.Clear()
	assert.Equal(t, 0, b.Len())

	applied := b.Drain(now, func(Action) {})
	assert.Equal(t, 0, applied)
}

// Draining the same sequence twice from identical buffers yields identical
// application orders.
func TestDrainDeterministic(t *testing.T) {
	build := func() *Buffer {
		b := NewBuffer()
		now := time.Unix(1000, 0)
		actions := []Action{ActionMoveLeft, ActionMoveLeft, ActionRotate, ActionMoveRight, ActionHardDrop}
		for i, a := range actions {
			b.Push(&Event{Action: a, ClientTime: int64(i), ReceivedAt: now})
		}
		return b
	}

	drain := func(b *Buffer) string {
		out := ""
		b.Drain(time.Unix(1000, 0), func(a Action) {
			out += fmt.Sprintf("%s;", a)
		})
		return out
	}

	assert.Equal(t, drain(build()), drain(build()))
}
