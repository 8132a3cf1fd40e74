// game/piece.go
package game

import "math/rand"

// Shape is a piece's occupancy matrix. Non-zero cells are occupied.
type Shape [][]int

// PieceType identifies one of the seven tetrominoes.
type PieceType string

const (
	PieceI PieceType = "I"
	PieceO PieceType = "O"
	PieceT PieceType = "T"
	PieceS PieceType = "S"
	PieceZ PieceType = "Z"
	PieceJ PieceType = "J"
	PieceL PieceType = "L"
)

// Piece is a tetromino instance. The anchor position lives on the owning
// Player, not here; rotation changes Shape but never Type or Color.
type Piece struct {
	Type  PieceType `json:"type"`
	Shape Shape     `json:"shape"`
	Color int       `json:"color"`
}

var pieceTypes = []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// Cell colors are opaque identifiers; clients map them to materials.
var pieceTemplates = map[PieceType]Piece{
	PieceI: {Type: PieceI, Color: 1, Shape: Shape{{0, 0, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
	PieceO: {Type: PieceO, Color: 2, Shape: Shape{{1, 1}, {1, 1}}},
	PieceT: {Type: PieceT, Color: 3, Shape: Shape{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}}},
	PieceS: {Type: PieceS, Color: 4, Shape: Shape{{0, 1, 1}, {1, 1, 0}, {0, 0, 0}}},
	PieceZ: {Type: PieceZ, Color: 5, Shape: Shape{{1, 1, 0}, {0, 1, 1}, {0, 0, 0}}},
	PieceJ: {Type: PieceJ, Color: 6, Shape: Shape{{1, 0, 0}, {1, 1, 1}, {0, 0, 0}}},
	PieceL: {Type: PieceL, Color: 7, Shape: Shape{{0, 0, 1}, {1, 1, 1}, {0, 0, 0}}},
}

// NewPiece returns a fresh instance of the given type with its own shape
// copy, so rotations never mutate the shared template.
func NewPiece(t PieceType) *Piece {
	tpl := pieceTemplates[t]
	return &Piece{
		Type:  tpl.Type,
		Color: tpl.Color,
		Shape: tpl.Shape.clone(),
	}
}

// RandomPiece draws a uniformly random piece from the given source.
func RandomPiece(rng *rand.Rand) *Piece {
	return NewPiece(pieceTypes[rng.Intn(len(pieceTypes))])
}

// RotateClockwise returns the shape rotated 90 degrees clockwise
// (transpose, then reverse each row). Four applications restore the input.
func RotateClockwise(s Shape) Shape {
	rows := len(s)
	if rows == 0 {
		return Shape{}
	}
	cols := len(s[0])

	rotated := make(Shape, cols)
	for i := 0; i < cols; i++ {
		rotated[i] = make([]int, rows)
		for j := 0; j < rows; j++ {
			rotated[i][j] = s[rows-1-j][i]
		}
	}
	return rotated
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// Equal reports whether two shapes have identical dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}
