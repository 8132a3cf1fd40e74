// delta/encoder_test.go
package delta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twobob/blockduel/game"
)

func testView() RoomView {
	s1 := game.NewPlayer(1)
	s2 := game.NewPlayer(2)
	s1.Deal()
	s2.Deal()
	return RoomView{
		Seat1:   s1.Snapshot(),
		Seat2:   s2.Snapshot(),
		Started: true,
		Winner:  game.WinnerNone,
	}
}

func TestFirstEmissionIsAlwaysFull(t *testing.T) {
	e := NewEncoder("room-1")
	e.Mark(PartSeat1) // a lone dirty flag must not downgrade the first send

	u := e.Encode(testView(), time.Now())
	require.NotNil(t, u)
	assert.True(t, u.Full)
	assert.NotNil(t, u.Seat1)
	assert.NotNil(t, u.Seat2)
	require.NotNil(t, u.Started)
	assert.True(t, *u.Started)
	require.NotNil(t, u.Winner)
	assert.Equal(t, "", *u.Winner)
	assert.Equal(t, "room-1", u.RoomID)
}

func TestEncodeNilWhenClean(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	require.NotNil(t, e.Encode(testView(), now))

	assert.Nil(t, e.Encode(testView(), now))
	assert.False(t, e.Dirty())
}

func TestDeltaCarriesOnlyDirtyPartitions(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	e.Encode(testView(), now)

	e.Mark(PartSeat1)
	u := e.Encode(testView(), now)

	require.NotNil(t, u)
	assert.False(t, u.Full)
	assert.NotNil(t, u.Seat1)
	assert.Nil(t, u.Seat2)
	assert.Nil(t, u.Started)
	assert.Nil(t, u.Winner)
}

func TestDeltaWinnerAndStarted(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	e.Encode(testView(), now)

	view := testView()
	view.Started = false
	view.Winner = game.WinnerSeat2
	e.Mark(PartStarted | PartWinner)
	u := e.Encode(view, now)

	require.NotNil(t, u)
	assert.Nil(t, u.Seat1)
	assert.Nil(t, u.Seat2)
	require.NotNil(t, u.Started)
	assert.False(t, *u.Started)
	require.NotNil(t, u.Winner)
	assert.Equal(t, "player2", *u.Winner)
}

func TestEncodeClearsDirtySet(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	e.Encode(testView(), now)

	e.Mark(PartSeat2)
	require.NotNil(t, e.Encode(testView(), now))
	assert.Nil(t, e.Encode(testView(), now), "a drained dirty set must not re-emit")
}

func TestEncodeFullAfterMarks(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	e.Encode(testView(), now)

	e.Mark(PartSeat1)
	u := e.EncodeFull(testView(), now)
	assert.True(t, u.Full)
	assert.False(t, e.Dirty())
}

func TestResetForcesNextFull(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	e.Encode(testView(), now)

	e.Reset()
	u := e.Encode(testView(), now)
	require.NotNil(t, u)
	assert.True(t, u.Full)
}

func TestTimestampsStrictlyMonotonic(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()

	// Same wall-clock instant for every emission; stamps must still rise.
	prev := int64(0)
	for i := 0; i < 5; i++ {
		e.Mark(PartSeat1)
		u := e.Encode(testView(), now)
		require.NotNil(t, u)
		assert.Greater(t, u.Timestamp, prev)
		prev = u.Timestamp
	}
}

func TestTimestampsMonotonicAcrossClockStall(t *testing.T) {
	e := NewEncoder("room-1")
	now := time.Now()
	first := e.Encode(testView(), now)

	// Clock going backwards must not produce a smaller stamp.
	e.Mark(PartSeat2)
	second := e.Encode(testView(), now.Add(-time.Second))
	assert.Greater(t, second.Timestamp, first.Timestamp)
}
