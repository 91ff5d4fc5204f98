package game

import "iter"

// Spawn offset: top-center, bounding box centered horizontally
const (
	SpawnX = Width/2 - 2
	SpawnY = 0
)

// Piece is the falling tetromino: a shape and its top-left offset on the board
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int
}

// NewPiece returns a piece of kind k in spawn orientation at the spawn offset
func NewPiece(k Kind) Piece {
	return Piece{
		Kind:  k,
		Shape: Template(k),
		X:     SpawnX,
		Y:     SpawnY,
	}
}

// Cells yields the board coordinates (x, y) of every occupied cell
func (p Piece) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for row, col := range p.Shape.Cells() {
			if !yield(p.X+col, p.Y+row) {
				return
			}
		}
	}
}
