package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplates_FourCells(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		n := 0
		for range Template(k).Cells() {
			n++
		}
		assert.Equalf(t, PieceCells, n, "template %s", k)
	}
}

func TestShape_RotateOrderFour(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		s := Template(k)
		r := s
		for i := 0; i < 4; i++ {
			r = r.Rotate()
		}
		assert.Equalf(t, s, r, "template %s after four rotations", k)
	}
}

func TestShape_RotateClockwise(t *testing.T) {
	// Horizontal I on row 1 becomes vertical I on column 2
	got := Template(KindI).Rotate()
	want := shapeOf(
		"..#.",
		"..#.",
		"..#.",
		"..#.",
	)
	assert.Equal(t, want, got)

	// T pointing up turns to point right
	got = Template(KindT).Rotate()
	want = shapeOf(
		"..#.",
		"..##",
		"..#.",
	)
	assert.Equal(t, want, got)
}

func TestShape_At(t *testing.T) {
	o := Template(KindO)
	assert.True(t, o.At(0, 1))
	assert.True(t, o.At(1, 2))
	assert.False(t, o.At(0, 0))
	assert.False(t, o.At(4, 0))
}

func TestNewPiece_SpawnPosition(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		p := NewPiece(k)
		assert.Equal(t, Width/2-2, p.X)
		assert.Equal(t, 0, p.Y)
		assert.Equal(t, Template(k), p.Shape)
	}
}
