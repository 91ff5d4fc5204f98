package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// place overrides the active piece for scenario setup
func place(c *Controller, k Kind, x, y int) {
	c.piece = Piece{Kind: k, Shape: Template(k), X: x, Y: y}
}

func TestController_StartsFalling(t *testing.T) {
	c := NewController(WithSeed(7))

	assert.Equal(t, StateFalling, c.State())
	assert.Equal(t, "Falling", c.StateName())
	assert.Equal(t, SpawnX, c.Piece().X)
	assert.Equal(t, SpawnY, c.Piece().Y)
	assert.Equal(t, 0, c.Board().Count())
	assert.Equal(t, PieceCells, c.Snapshot().Count())
}

func TestController_SeedDeterministic(t *testing.T) {
	a := NewController(WithSeed(42))
	b := NewController(WithSeed(42))
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Piece().Kind, b.Piece().Kind)
		a.Handle(CommandHardDrop)
		b.Handle(CommandHardDrop)
		if a.GameOver() {
			break
		}
	}
}

func TestController_HardDropOPiece(t *testing.T) {
	c := NewController(WithSeed(1))
	place(c, KindO, 4, 0)

	assert.True(t, c.Handle(CommandHardDrop))

	b := c.Board()
	assert.Equal(t, PieceCells, b.Count(), "board unchanged apart from the piece")
	for _, cell := range [][2]int{{5, Height - 2}, {6, Height - 2}, {5, Height - 1}, {6, Height - 1}} {
		assert.Truef(t, b.IsOccupied(cell[0], cell[1]), "cell %v", cell)
	}

	// New piece spawned
	assert.Equal(t, StateFalling, c.State())
	assert.Equal(t, SpawnX, c.Piece().X)
	assert.Equal(t, SpawnY, c.Piece().Y)
	assert.Equal(t, 1, c.Stats().PiecesLocked)
}

func TestController_LockCompletesRow(t *testing.T) {
	var start Board
	fillRow(&start, Height-1, 3)
	start.Occupy(8, Height-2)
	start.Occupy(0, 5)

	var observed []int
	c := NewController(WithSeed(3), WithBoard(start), WithLockObserver(func(_ Piece, cleared int) {
		observed = append(observed, cleared)
	}))

	// Vertical I in column 3: rotated I occupies box column 2
	c.piece = Piece{Kind: KindI, Shape: Template(KindI).Rotate(), X: 1, Y: 0}
	c.Handle(CommandHardDrop)

	b := c.Board()
	assert.Equal(t, []int{1}, observed)
	assert.Equal(t, 1, c.Stats().LinesCleared)
	// Remaining I cells (three) shifted down one row; stack markers moved down
	assert.True(t, b.IsOccupied(3, Height-1))
	assert.True(t, b.IsOccupied(3, Height-2))
	assert.True(t, b.IsOccupied(3, Height-3))
	assert.False(t, b.IsOccupied(3, Height-4))
	assert.True(t, b.IsOccupied(8, Height-1))
	assert.True(t, b.IsOccupied(0, 6))
	assert.False(t, b.IsOccupied(0, 5))
	assert.Equal(t, uint16(0), b.rows[0])
	assert.Equal(t, 5, b.Count())
}

func TestController_MoveLeftAtWall(t *testing.T) {
	c := NewController(WithSeed(1))
	place(c, KindJ, 0, 4)
	before := c.Piece()

	assert.False(t, c.Handle(CommandMoveLeft))
	assert.Equal(t, before, c.Piece())

	assert.True(t, c.Handle(CommandMoveRight))
	assert.Equal(t, 1, c.Piece().X)
}

func TestController_MoveBlockedByStack(t *testing.T) {
	var start Board
	start.Occupy(2, 5)
	c := NewController(WithSeed(1), WithBoard(start))
	place(c, KindO, 2, 4) // columns 3,4 rows 4,5
	before := c.Piece()

	assert.False(t, c.Handle(CommandMoveLeft), "column 2 row 5 is filled")
	assert.Equal(t, before, c.Piece())
}

func TestController_RotateRejectedAtWall(t *testing.T) {
	c := NewController(WithSeed(1))
	// Vertical I against the right wall: box column 2 at x=7 -> board column 9
	c.piece = Piece{Kind: KindI, Shape: Template(KindI).Rotate(), X: 7, Y: 4}
	before := c.Piece()

	// Horizontal I would need columns 7..10
	assert.False(t, c.Handle(CommandRotate))
	assert.Equal(t, before, c.Piece())

	c.piece.X = 5
	assert.True(t, c.Handle(CommandRotate))
	assert.NotEqual(t, before.Shape, c.Piece().Shape)
}

func TestController_SoftDropAndTickLock(t *testing.T) {
	c := NewController(WithSeed(1))
	place(c, KindO, 4, Height-3)

	assert.True(t, c.Handle(CommandSoftDrop))
	assert.Equal(t, Height-2, c.Piece().Y)
	assert.Equal(t, 0, c.Board().Count())

	// Floor below: tick locks and respawns
	assert.True(t, c.Tick())
	assert.Equal(t, PieceCells, c.Board().Count())
	assert.Equal(t, SpawnY, c.Piece().Y)
	assert.Equal(t, 1, c.Stats().Ticks)
}

func TestController_UnknownCommandNoop(t *testing.T) {
	c := NewController(WithSeed(1))
	before := c.Snapshot()

	assert.False(t, c.Handle(CommandNone))
	assert.Equal(t, before, c.Snapshot())
}

func TestController_SpawnCollisionGameOver(t *testing.T) {
	var start Board
	for r := 0; r < 2; r++ {
		fillRow(&start, r, 0)
	}
	c := NewController(WithSeed(1), WithBoard(start))

	require.True(t, c.GameOver())
	assert.Equal(t, "GameOver", c.StateName())

	board := c.Board()
	snap := c.Snapshot()
	for _, cmd := range []Command{CommandMoveLeft, CommandMoveRight, CommandRotate, CommandSoftDrop, CommandHardDrop} {
		assert.False(t, c.Handle(cmd))
	}
	assert.False(t, c.Tick())
	assert.Equal(t, board, c.Board())
	assert.Equal(t, snap, c.Snapshot())
	assert.Equal(t, 0, c.Stats().Commands)
}

func TestController_TopOutAfterStacking(t *testing.T) {
	c := NewController(WithSeed(9))
	for i := 0; i < Height*2 && !c.GameOver(); i++ {
		c.Handle(CommandHardDrop)
	}
	require.True(t, c.GameOver(), "stacking in the spawn column must top out")

	board := c.Board()
	c.Handle(CommandHardDrop)
	c.Tick()
	assert.Equal(t, board, c.Board())
}

func TestController_LockNeverAddsMoreThanPiece(t *testing.T) {
	c := NewController(WithSeed(11))
	moves := []Command{CommandMoveLeft, CommandRotate, CommandMoveRight, CommandMoveRight, CommandMoveLeft}
	for i := 0; i < 200 && !c.GameOver(); i++ {
		c.Handle(moves[i%len(moves)])
		before := c.Board().Count()
		locked := c.Stats().PiecesLocked
		cleared := c.Stats().LinesCleared
		c.Tick()
		if c.Stats().PiecesLocked > locked {
			delta := c.Board().Count() - before
			lines := c.Stats().LinesCleared - cleared
			assert.Equal(t, PieceCells-lines*Width, delta)
		}
	}
}
