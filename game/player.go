// game/player.go
package game

import "math/rand"

// Score values. Line scores are indexed by lines-cleared-1 and multiplied
// by the level in effect before the level recalculation.
const (
	softDropScore     = 1
	hardDropCellScore = 2
)

var lineScores = [4]int{100, 300, 500, 800}

// Winner is the terminal outcome of a game. It is set at most once per
// game and only cleared by an explicit reset.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerSeat1 Winner = "player1"
	WinnerSeat2 Winner = "player2"
	WinnerDraw  Winner = "draw"
)

// Player is the authoritative simulation state of one seat. All methods
// are pure in-memory transforms; callers serialize access per room.
type Player struct {
	Grid    Grid
	Current *Piece
	Next    *Piece
	X       int
	Y       int
	Score   int
	Lines   int
	Level   int
	Alive   bool
	Ready   bool

	rng *rand.Rand
}

// NewPlayer returns a seat in its pre-game default state. The seed drives
// the piece sequence; fixed seeds give reproducible games in tests.
func NewPlayer(seed int64) *Player {
	p := &Player{rng: rand.New(rand.NewSource(seed))}
	p.Reset()
	return p
}

// Reset reinitializes the seat to empty/default. Pieces are not dealt
// until the seat readies up.
func (p *Player) Reset() {
	p.Grid = NewGrid()
	p.Current = nil
	p.Next = nil
	p.X = SpawnX
	p.Y = SpawnY
	p.Score = 0
	p.Lines = 0
	p.Level = 1
	p.Alive = true
	p.Ready = false
}

// Deal draws a fresh current+next piece pair at the canonical spawn anchor.
func (p *Player) Deal() {
	p.Current = RandomPiece(p.rng)
	p.Next = RandomPiece(p.rng)
	p.X = SpawnX
	p.Y = SpawnY
}

// MoveLeft shifts the active piece one column left if it fits.
func (p *Player) MoveLeft() bool {
	return p.shift(-1, 0)
}

// MoveRight shifts the active piece one column right if it fits.
func (p *Player) MoveRight() bool {
	return p.shift(1, 0)
}

// SoftDrop moves the piece one row down for a point. A false return means
// the piece is resting and a placement pass is due.
func (p *Player) SoftDrop() bool {
	if !p.shift(0, 1) {
		return false
	}
	p.Score += softDropScore
	return true
}

// GravityDrop is the automatic descent step. It scores nothing; a false
// return triggers the same placement pass as a failed manual down-move.
func (p *Player) GravityDrop() bool {
	return p.shift(0, 1)
}

// Rotate applies a clockwise rotation with wall-kick resolution. The piece
// is unchanged when every kick offset collides.
func (p *Player) Rotate() bool {
	if p.Current == nil {
		return false
	}
	shape, x, y, ok := ResolveRotation(p.Grid, p.Current.Shape, p.X, p.Y)
	if !ok {
		return false
	}
	p.Current.Shape = shape
	p.X = x
	p.Y = y
	return true
}

// HardDrop sends the piece to its resting row, scoring two points per cell
// descended, and returns the distance. The caller always follows with a
// placement pass.
func (p *Player) HardDrop() int {
	distance := 0
	for p.shift(0, 1) {
		distance++
		p.Score += hardDropCellScore
	}
	return distance
}

// Lock stamps the active piece into the grid, clears lines, and applies
// scoring and leveling. Line points use the level in effect before the
// recalculation. Returns the number of lines cleared.
func (p *Player) Lock() int {
	if p.Current == nil {
		return 0
	}
	p.Grid = Place(p.Grid, p.Current.Shape, p.Current.Color, p.X, p.Y)

	grid, cleared := ClearLines(p.Grid)
	p.Grid = grid
	if cleared > 0 {
		p.Score += lineScores[cleared-1] * p.Level
		p.Lines += cleared
		p.Level = p.Lines/10 + 1
	}
	return cleared
}

// ToppedOut reports whether either of the two topmost rows holds a cell.
func (p *Player) ToppedOut() bool {
	for row := 0; row < 2; row++ {
		for col := 0; col < GridWidth; col++ {
			if p.Grid[row][col] != 0 {
				return true
			}
		}
	}
	return false
}

// SpawnNext promotes the next piece to current at the spawn anchor and
// draws a new next piece. A false return means the spawn is blocked and
// the seat dies.
func (p *Player) SpawnNext() bool {
	p.Current = p.Next
	p.Next = RandomPiece(p.rng)
	p.X = SpawnX
	p.Y = SpawnY
	return CollisionFree(p.Grid, p.Current.Shape, p.X, p.Y)
}

func (p *Player) shift(dx, dy int) bool {
	if p.Current == nil {
		return false
	}
	nx, ny := p.X+dx, p.Y+dy
	if !CollisionFree(p.Grid, p.Current.Shape, nx, ny) {
		return false
	}
	p.X = nx
	p.Y = ny
	return true
}

// Clone copies the simulation state for per-action rollback. The random
// source is shared so a restored seat keeps its piece sequence.
func (p *Player) Clone() *Player {
	out := *p
	out.Grid = p.Grid.Clone()
	if p.Current != nil {
		c := *p.Current
		c.Shape = p.Current.Shape.clone()
		out.Current = &c
	}
	if p.Next != nil {
		n := *p.Next
		n.Shape = p.Next.Shape.clone()
		out.Next = &n
	}
	return &out
}

// Restore overwrites the seat with a previously cloned state.
func (p *Player) Restore(backup *Player) {
	rng := p.rng
	*p = *backup
	p.rng = rng
}

// Snapshot is the wire view of a seat, consumed verbatim by renderers.
type Snapshot struct {
	Grid    Grid   `json:"grid"`
	Current *Piece `json:"currentPiece,omitempty"`
	Next    *Piece `json:"nextPiece,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Score   int    `json:"score"`
	Lines   int    `json:"lines"`
	Level   int    `json:"level"`
	Alive   bool   `json:"alive"`
	Ready   bool   `json:"ready"`
}

// Snapshot captures the current seat state. Grids and shapes are deep
// copied so later mutation never leaks into emitted messages.
func (p *Player) Snapshot() *Snapshot {
	s := &Snapshot{
		Grid:  p.Grid.Clone(),
		X:     p.X,
		Y:     p.Y,
		Score: p.Score,
		Lines: p.Lines,
		Level: p.Level,
		Alive: p.Alive,
		Ready: p.Ready,
	}
	if p.Current != nil {
		c := *p.Current
		c.Shape = p.Current.Shape.clone()
		s.Current = &c
	}
	if p.Next != nil {
		n := *p.Next
		n.Shape = p.Next.Shape.clone()
		s.Next = &n
	}
	return s
}
