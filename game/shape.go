package game

import "iter"

// ShapeSize is the edge length of every shape's bounding box
const ShapeSize = 4

// PieceCells is the number of occupied cells in every tetromino
const PieceCells = 4

// Shape is a 4x4 bit matrix, bit (row*4 + col) set for an occupied cell
type Shape uint16

// Kind identifies one of the seven tetromino templates
type Kind uint8

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
	KindCount
)

var kindNames = [KindCount]string{"I", "J", "L", "O", "S", "T", "Z"}

func (k Kind) String() string {
	if k >= KindCount {
		return "?"
	}
	return kindNames[k]
}

var templates = [KindCount]Shape{
	KindI: shapeOf(
		"....",
		"####",
	),
	KindJ: shapeOf(
		"#...",
		"###.",
	),
	KindL: shapeOf(
		"..#.",
		"###.",
	),
	KindO: shapeOf(
		".##.",
		".##.",
	),
	KindS: shapeOf(
		".##.",
		"##..",
	),
	KindT: shapeOf(
		".#..",
		"###.",
	),
	KindZ: shapeOf(
		"##..",
		".##.",
	),
}

// Template returns the spawn orientation for k
func Template(k Kind) Shape {
	if k >= KindCount {
		return 0
	}
	return templates[k]
}

// shapeOf builds a shape from up to four rows of '#'/'.' art; missing rows are empty
func shapeOf(rows ...string) Shape {
	var s Shape
	for r, line := range rows {
		for c := 0; c < len(line) && c < ShapeSize; c++ {
			if line[c] == '#' {
				s = s.with(r, c)
			}
		}
	}
	return s
}

func (s Shape) with(row, col int) Shape {
	return s | 1<<(row*ShapeSize+col)
}

// At reports whether the cell at (row, col) is occupied
func (s Shape) At(row, col int) bool {
	if row < 0 || row >= ShapeSize || col < 0 || col >= ShapeSize {
		return false
	}
	return s&(1<<(row*ShapeSize+col)) != 0
}

// Cells yields (row, col) of every occupied cell in row-major order
func (s Shape) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i < ShapeSize*ShapeSize; i++ {
			if s&(1<<i) == 0 {
				continue
			}
			if !yield(i/ShapeSize, i%ShapeSize) {
				return
			}
		}
	}
}

// Rotate returns the shape turned 90 degrees clockwise inside its 4x4 box:
// transpose, then reverse the cell order within each row
func (s Shape) Rotate() Shape {
	var out Shape
	for row, col := range s.Cells() {
		// (row, col) -> transpose (col, row) -> mirror (col, 3-row)
		out = out.with(col, ShapeSize-1-row)
	}
	return out
}
