package game

import (
	"math/bits"
	"strings"
)

// Board dimensions are fixed for the lifetime of a game
const (
	Width  = 10
	Height = 20
)

// fullRow has every column bit set
const fullRow uint16 = 1<<Width - 1

// Board is the occupancy grid of locked cells
// Each row is a bit set, bit c = column c; rows are indexed top-to-bottom
// The zero value is an empty board
type Board struct {
	rows [Height]uint16
}

// InBounds reports whether (x, y) lies inside the board
func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// IsOccupied returns true if the cell is filled
// Coordinates outside the board report false; use Collides for placement checks
func (b Board) IsOccupied(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	return b.rows[y]&(1<<x) != 0
}

// Occupy fills a single cell, ignoring out-of-range coordinates
func (b *Board) Occupy(x, y int) {
	if !b.InBounds(x, y) {
		return
	}
	b.rows[y] |= 1 << x
}

// ClearRow empties row r
func (b *Board) ClearRow(r int) {
	if r < 0 || r >= Height {
		return
	}
	b.rows[r] = 0
}

// ShiftRowsDown moves every row above `from` down by one, overwriting row `from`
// Row 0 is left empty afterwards
func (b *Board) ShiftRowsDown(from int) {
	if from < 0 || from >= Height {
		return
	}
	for r := from; r > 0; r-- {
		b.rows[r] = b.rows[r-1]
	}
	b.ClearRow(0)
}

// RowFull reports whether every column of row r is occupied
func (b Board) RowFull(r int) bool {
	if r < 0 || r >= Height {
		return false
	}
	return b.rows[r] == fullRow
}

// Count returns the number of occupied cells
func (b Board) Count() int {
	n := 0
	for _, row := range b.rows {
		n += bits.OnesCount16(row)
	}
	return n
}

// Collides reports whether shape placed at (x, y) overlaps a wall, the floor,
// the ceiling, or an occupied cell
func (b Board) Collides(x, y int, shape Shape) bool {
	for row, col := range shape.Cells() {
		bx, by := x+col, y+row
		if !b.InBounds(bx, by) {
			return true
		}
		if b.rows[by]&(1<<bx) != 0 {
			return true
		}
	}
	return false
}

// Stamp writes every occupied cell of p into the board
// Cells outside the board are dropped; callers lock only collision-free pieces
func (b *Board) Stamp(p Piece) {
	for x, y := range p.Cells() {
		b.Occupy(x, y)
	}
}

// String renders the board as H lines of '#' (filled) and '.' (empty)
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if b.rows[y]&(1<<x) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
