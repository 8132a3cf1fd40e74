// game/grid.go
package game

// Field dimensions and the canonical spawn anchor.
const (
	GridWidth  = 10
	GridHeight = 20
	SpawnX     = 4
	SpawnY     = 0
)

// Grid is the 10x20 playfield. 0 is empty; any other value is an opaque
// color identifier stamped from a locked piece.
type Grid [][]int

// NewGrid returns an empty playfield.
func NewGrid() Grid {
	g := make(Grid, GridHeight)
	for i := range g {
		g[i] = make([]int, GridWidth)
	}
	return g
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// CollisionFree reports whether the shape fits at anchor (x, y). Occupied
// cells must stay inside the columns, never reach row 20, and must not
// overlap a non-empty grid cell. Rows above the visible field (row < 0)
// skip the occupancy check but still obey the column bound.
func CollisionFree(g Grid, shape Shape, x, y int) bool {
	for sy := range shape {
		for sx := range shape[sy] {
			if shape[sy][sx] == 0 {
				continue
			}
			col := x + sx
			row := y + sy

			if col < 0 || col >= GridWidth || row >= GridHeight {
				return false
			}
			if row >= 0 && g[row][col] != 0 {
				return false
			}
		}
	}
	return true
}

// Place returns a copy of the grid with the shape stamped at (x, y) using
// the given color. Cells above the visible field are not written.
func Place(g Grid, shape Shape, color, x, y int) Grid {
	out := g.Clone()
	for sy := range shape {
		for sx := range shape[sy] {
			if shape[sy][sx] == 0 {
				continue
			}
			col := x + sx
			row := y + sy
			if row >= 0 && row < GridHeight && col >= 0 && col < GridWidth {
				out[row][col] = color
			}
		}
	}
	return out
}

// ClearLines removes every full row, inserts an equal number of empty rows
// at the top, and returns the new grid plus the count. Row order of the
// surviving rows is preserved and the result is always 20 rows.
func ClearLines(g Grid) (Grid, int) {
	kept := make(Grid, 0, GridHeight)
	for _, row := range g {
		full := true
		for _, cell := range row {
			if cell == 0 {
				full = false
				break
			}
		}
		if !full {
			copied := make([]int, len(row))
			copy(copied, row)
			kept = append(kept, copied)
		}
	}

	cleared := GridHeight - len(kept)
	out := make(Grid, 0, GridHeight)
	for i := 0; i < cleared; i++ {
		out = append(out, make([]int, GridWidth))
	}
	out = append(out, kept...)
	return out, cleared
}

// kickOffsets are tried in order when a rotation collides at the current
// anchor. The first offset that fits wins.
var kickOffsets = [][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {-1, -1}, {1, -1}}

// ResolveRotation rotates the shape clockwise and walks the wall-kick
// offsets. It returns the rotated shape and the accepted anchor, or
// ok=false when every offset collides and the rotation must be rejected.
func ResolveRotation(g Grid, shape Shape, x, y int) (Shape, int, int, bool) {
	rotated := RotateClockwise(shape)
	for _, off := range kickOffsets {
		nx, ny := x+off[0], y+off[1]
		if CollisionFree(g, rotated, nx, ny) {
			return rotated, nx, ny, true
		}
	}
	return nil, 0, 0, false
}
