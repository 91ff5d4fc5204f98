package game

import (
	"math/rand/v2"

	"github.com/lixenwraith/blockfall/engine/fsm"
)

// Game states
const (
	StateSpawning fsm.StateID = iota + 1
	StateFalling
	StateGameOver
)

// eventLock fires when the active piece has been stamped into the board
const eventLock fsm.EventType = 1

// Stats counts lifetime game activity
type Stats struct {
	PiecesLocked int
	LinesCleared int
	Ticks        int
	Commands     int
}

// Controller owns the board and the active piece and drives the spawn/fall/lock cycle
// Not safe for concurrent use; the session serializes commands and ticks
type Controller struct {
	board Board
	piece Piece
	rng   *rand.Rand
	fsm   *fsm.Machine[*Controller]
	stats Stats

	// Optional observer invoked after each lock with the number of rows cleared
	onLock func(p Piece, cleared int)
}

// Option configures a Controller
type Option func(*Controller)

// WithSeed makes piece selection deterministic
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand injects a random source for piece selection
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithBoard starts the game on a pre-filled board
func WithBoard(b Board) Option {
	return func(c *Controller) {
		c.board = b
	}
}

// WithLockObserver registers a callback run after every lock and line clear
func WithLockObserver(fn func(p Piece, cleared int)) Option {
	return func(c *Controller) {
		c.onLock = fn
	}
}

// NewController creates a game and spawns the first piece
// A board whose spawn area is already filled starts in StateGameOver
func NewController(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.fsm = newMachine()
	// Graph is static; Validate cannot fail
	_ = c.fsm.Init(c)
	return c
}

// newMachine builds the Spawning -> Falling -> (lock) -> Spawning cycle with top-out to GameOver
func newMachine() *fsm.Machine[*Controller] {
	m := fsm.NewMachine[*Controller]()
	m.AddState(StateSpawning, "Spawning")
	m.AddState(StateFalling, "Falling")
	m.AddState(StateGameOver, "GameOver")
	m.SetInitial(StateSpawning)

	m.OnEnter(StateSpawning, (*Controller).spawn)
	m.AddTransition(StateSpawning, fsm.Transition[*Controller]{
		TargetID: StateGameOver,
		Event:    fsm.EventAuto,
		Guard:    (*Controller).spawnBlocked,
	})
	m.AddTransition(StateSpawning, fsm.Transition[*Controller]{
		TargetID: StateFalling,
		Event:    fsm.EventAuto,
	})
	m.AddTransition(StateFalling, fsm.Transition[*Controller]{
		TargetID: StateSpawning,
		Event:    eventLock,
	})
	return m
}

// spawn replaces the active piece with a random template at the spawn offset
func (c *Controller) spawn() {
	c.piece = NewPiece(Kind(c.rng.IntN(int(KindCount))))
}

func (c *Controller) spawnBlocked() bool {
	return c.board.Collides(c.piece.X, c.piece.Y, c.piece.Shape)
}

// Handle applies a player command
// Returns true if board or piece changed; blocked moves and commands after
// game over are no-ops
func (c *Controller) Handle(cmd Command) bool {
	if c.GameOver() {
		return false
	}
	c.stats.Commands++

	switch cmd {
	case CommandMoveLeft:
		return c.shift(-1)
	case CommandMoveRight:
		return c.shift(1)
	case CommandRotate:
		return c.rotate()
	case CommandSoftDrop:
		return c.step()
	case CommandHardDrop:
		return c.hardDrop()
	default:
		return false
	}
}

// Tick applies one row of gravity, locking the piece when it cannot fall
func (c *Controller) Tick() bool {
	if c.GameOver() {
		return false
	}
	c.stats.Ticks++
	return c.step()
}

func (c *Controller) shift(dx int) bool {
	if c.board.Collides(c.piece.X+dx, c.piece.Y, c.piece.Shape) {
		return false
	}
	c.piece.X += dx
	return true
}

func (c *Controller) rotate() bool {
	rotated := c.piece.Shape.Rotate()
	if c.board.Collides(c.piece.X, c.piece.Y, rotated) {
		return false
	}
	c.piece.Shape = rotated
	return true
}

// step moves down one row, or locks when the row below is blocked
func (c *Controller) step() bool {
	if !c.board.Collides(c.piece.X, c.piece.Y+1, c.piece.Shape) {
		c.piece.Y++
		return true
	}
	c.lock()
	return true
}

func (c *Controller) hardDrop() bool {
	for !c.board.Collides(c.piece.X, c.piece.Y+1, c.piece.Shape) {
		c.piece.Y++
	}
	c.lock()
	return true
}

// lock stamps the piece, clears full rows, and re-enters Spawning
func (c *Controller) lock() {
	locked := c.piece
	c.board.Stamp(locked)
	cleared := ClearLines(&c.board)

	c.stats.PiecesLocked++
	c.stats.LinesCleared += cleared

	if c.onLock != nil {
		c.onLock(locked, cleared)
	}
	c.fsm.HandleEvent(c, eventLock)
}

// State returns the current state machine state
func (c *Controller) State() fsm.StateID {
	return c.fsm.Active()
}

// StateName returns a readable name for the current state
func (c *Controller) StateName() string {
	return c.fsm.Name(c.fsm.Active())
}

// GameOver reports whether the game has topped out
func (c *Controller) GameOver() bool {
	return c.fsm.Active() == StateGameOver
}

// Piece returns a copy of the active piece
func (c *Controller) Piece() Piece {
	return c.piece
}

// Board returns a copy of the locked cells
func (c *Controller) Board() Board {
	return c.board
}

// Stats returns a copy of the activity counters
func (c *Controller) Stats() Stats {
	return c.stats
}

// Snapshot returns the board with the active piece overlaid
func (c *Controller) Snapshot() Board {
	snap := c.board
	snap.Stamp(c.piece)
	return snap
}
