// game/player_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T, piece PieceType) *Player {
	t.Helper()
	p := NewPlayer(1)
	p.Current = NewPiece(piece)
	p.Next = NewPiece(piece)
	p.X = SpawnX
	p.Y = SpawnY
	return p
}

func TestResetDefaults(t *testing.T) {
	p := NewPlayer(1)
	p.Score = 500
	p.Lines = 12
	p.Level = 2
	p.Alive = false
	p.Ready = true
	p.Deal()

	p.Reset()

	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 0, p.Lines)
	assert.Equal(t, 1, p.Level)
	assert.True(t, p.Alive)
	assert.False(t, p.Ready)
	assert.Nil(t, p.Current)
	assert.Nil(t, p.Next)
	assert.Equal(t, SpawnX, p.X)
	assert.Equal(t, SpawnY, p.Y)
}

func TestMoveStopsAtWalls(t *testing.T) {
	p := newTestPlayer(t, PieceO)

	for p.MoveLeft() {
	}
	assert.Equal(t, 0, p.X)
	assert.False(t, p.MoveLeft())

	for p.MoveRight() {
	}
	assert.Equal(t, GridWidth-2, p.X)
	assert.False(t, p.MoveRight())
}

func TestSoftDropScoresOnePerRow(t *testing.T) {
	p := newTestPlayer(t, PieceO)

	assert.True(t, p.SoftDrop())
	assert.True(t, p.SoftDrop())
	assert.Equal(t, 2, p.Score)
	assert.Equal(t, 2, p.Y)
}

func TestSoftDropAtRestReportsPlacementDue(t *testing.T) {
	p := newTestPlayer(t, PieceO)
	p.Y = GridHeight - 2

	assert.False(t, p.SoftDrop())
	assert.Equal(t, 0, p.Score, "a failed drop scores nothing")
	assert.Equal(t, GridHeight-2, p.Y)
}

func TestGravityDropScoresNothing(t *testing.T) {
	p := newTestPlayer(t, PieceO)

	assert.True(t, p.GravityDrop())
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 1, p.Y)
}

func TestHardDropScoresTwoPerCell(t *testing.T) {
	p := newTestPlayer(t, PieceO)

	distance := p.HardDrop()
	assert.Equal(t, GridHeight-2, distance)
	assert.Equal(t, 2*distance, p.Score)
	assert.Equal(t, GridHeight-2, p.Y)
}

// Two soft drops then a hard drop of an O piece from spawn: 1+1 for the
// soft drops, 2 per cell for the remaining 16 rows.
func TestODropScenario(t *testing.T) {
	p := newTestPlayer(t, PieceO)

	require.True(t, p.SoftDrop())
	require.True(t, p.SoftDrop())
	distance := p.HardDrop()

	assert.Equal(t, 16, distance)
	assert.Equal(t, 34, p.Score)
}

func TestRotateRejectedLeavesPieceUnchanged(t *testing.T) {
	p := newTestPlayer(t, PieceI)
	// Box in a vertical domino substitute: surround the piece completely.
	for row := range p.Grid {
		for col := range p.Grid[row] {
			p.Grid[row][col] = 1
		}
	}
	before := p.Current.Shape.clone()
	x, y := p.X, p.Y

	assert.False(t, p.Rotate())
	assert.True(t, before.Equal(p.Current.Shape))
	assert.Equal(t, x, p.X)
	assert.Equal(t, y, p.Y)
}

func TestRotateAppliesKickOffset(t *testing.T) {
	p := newTestPlayer(t, PieceI)
	require.True(t, p.Rotate()) // horizontal -> vertical
	p.Y = 5
	p.X = GridWidth - 3 // occupied column sits on the right wall

	require.True(t, p.Rotate())
	assert.Less(t, p.X, GridWidth-3, "rotation near the wall must kick inward")
	assert.True(t, CollisionFree(p.Grid, p.Current.Shape, p.X, p.Y))
}

func TestLockScoresLinesAtPreRecalcLevel(t *testing.T) {
	p := newTestPlayer(t, PieceO)
	p.Lines = 9
	p.Level = 1
	for col := 0; col < GridWidth; col++ {
		if col != 4 && col != 5 {
			p.Grid[19][col] = 1
		}
	}
	p.X = 4
	p.Y = 18

	cleared := p.Lock()

	assert.Equal(t, 1, cleared)
	assert.Equal(t, 100, p.Score, "line points use the level before recalculation")
	assert.Equal(t, 10, p.Lines)
	assert.Equal(t, 2, p.Level)
}

func TestLockLineScoreTable(t *testing.T) {
	cases := []struct {
		rows  int
		score int
	}{
		{1, 100},
		{2, 300},
	}
	for _, tc := range cases {
		p := newTestPlayer(t, PieceO)
		for row := GridHeight - tc.rows; row < GridHeight; row++ {
			for col := 0; col < GridWidth; col++ {
				if col != 4 && col != 5 {
					p.Grid[row][col] = 1
				}
			}
		}
		p.X = 4
		p.Y = GridHeight - 2
		if tc.rows == 1 {
			// Only the bottom row of the O completes a line.
			for col := 0; col < GridWidth; col++ {
				if col != 4 && col != 5 {
					p.Grid[GridHeight-2][col] = 0
				}
			}
		}

		cleared := p.Lock()
		assert.Equal(t, tc.rows, cleared)
		assert.Equal(t, tc.score, p.Score)
	}
}

func TestLockAtHigherLevelMultiplies(t *testing.T) {
	p := newTestPlayer(t, PieceO)
	p.Level = 3
	for col := 0; col < GridWidth; col++ {
		if col != 4 && col != 5 {
			p.Grid[19][col] = 1
		}
	}
	p.X = 4
	p.Y = 18

	p.Lock()
	assert.Equal(t, 300, p.Score)
}

func TestToppedOut(t *testing.T) {
	p := NewPlayer(1)
	assert.False(t, p.ToppedOut())

	p.Grid[1][9] = 4
	assert.True(t, p.ToppedOut())

	p.Reset()
	p.Grid[2][0] = 4
	assert.False(t, p.ToppedOut(), "row 2 is below the top-out band")
}

func TestSpawnNextBlocked(t *testing.T) {
	p := newTestPlayer(t, PieceO)
	p.Grid[1][4] = 1 // overlaps the O spawn footprint

	assert.False(t, p.SpawnNext())
	assert.Equal(t, SpawnX, p.X)
	assert.Equal(t, SpawnY, p.Y)
}

func TestSpawnNextPromotesNext(t *testing.T) {
	p := NewPlayer(7)
	p.Deal()
	next := p.Next.Type

	require.True(t, p.SpawnNext())
	assert.Equal(t, next, p.Current.Type)
	assert.NotNil(t, p.Next)
}

func TestCloneRestoreRoundTrip(t *testing.T) {
	p := newTestPlayer(t, PieceT)
	p.Score = 42
	backup := p.Clone()

	p.MoveLeft()
	p.Rotate()
	p.Score = 9000
	p.Grid[10][3] = 5

	p.Restore(backup)

	assert.Equal(t, 42, p.Score)
	assert.Equal(t, SpawnX, p.X)
	assert.Equal(t, 0, p.Grid[10][3])
	assert.True(t, NewPiece(PieceT).Shape.Equal(p.Current.Shape))
}

func TestCloneIsIndependent(t *testing.T) {
	p := newTestPlayer(t, PieceT)
	backup := p.Clone()

	p.Grid[0][0] = 9
	p.Current.Shape[0][0] = 9

	assert.Equal(t, 0, backup.Grid[0][0])
	assert.Equal(t, 0, backup.Current.Shape[0][0])
}

// Identical seeds and identical action sequences must produce identical
// outcomes.
func TestDeterministicReplay(t *testing.T) {
	run := func() *Player {
		p := NewPlayer(99)
		p.Deal()
		for i := 0; i < 5; i++ {
			p.MoveLeft()
			p.Rotate()
			p.HardDrop()
			p.Lock()
			if !p.SpawnNext() {
				break
			}
		}
		return p
	}

	a, b := run(), run()
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Lines, b.Lines)
	assert.Equal(t, a.Current.Type, b.Current.Type)
	assert.Equal(t, a.Next.Type, b.Next.Type)
	assert.Equal(t, a.Grid, b.Grid)
}

func TestSnapshotDeepCopies(t *testing.T) {
	p := newTestPlayer(t, PieceL)
	snap := p.Snapshot()

	p.Grid[5][5] = 9
	p.Current.Shape[0][0] = 9

	assert.Equal(t, 0, snap.Grid[5][5])
	assert.Equal(t, 0, snap.Current.Shape[0][0])
}
