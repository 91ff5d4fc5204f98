package network

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockfall/game"
	"github.com/lixenwraith/blockfall/protocol"
	"github.com/lixenwraith/blockfall/status"
)

// Session owns one client connection and one game
// Commands and gravity ticks are serialized through a single loop in Run
type Session struct {
	ID     uuid.UUID
	conn   net.Conn
	ctrl   *game.Controller
	config *Config
	logger *log.Logger

	metrics sessionMetrics
}

// sessionMetrics caches registry cells written by the loop
type sessionMetrics struct {
	connected *atomic.Bool
	commands  *atomic.Int64
	unknown   *atomic.Int64
	ticks     *atomic.Int64
	snapshots *atomic.Int64
	pieces    *atomic.Int64
	lines     *atomic.Int64
	fill      *status.AtomicFloat
	state     *status.AtomicString
	board     *status.AtomicString
}

func newSessionMetrics(reg *status.Registry) sessionMetrics {
	return sessionMetrics{
		connected: reg.Bools.Get(status.KeyConnected),
		commands:  reg.Ints.Get(status.KeyCommands),
		unknown:   reg.Ints.Get(status.KeyUnknown),
		ticks:     reg.Ints.Get(status.KeyTicks),
		snapshots: reg.Ints.Get(status.KeySnapshots),
		pieces:    reg.Ints.Get(status.KeyPiecesLocked),
		lines:     reg.Ints.Get(status.KeyLinesCleared),
		fill:      reg.Floats.Get(status.KeyFill),
		state:     reg.Strings.Get(status.KeyState),
		board:     reg.Strings.Get(status.KeyBoard),
	}
}

// inbound carries one decoded token or the terminal read error
type inbound struct {
	token string
	err   error
}

// NewSession creates a session and its game; opts configure the Controller
func NewSession(conn net.Conn, cfg *Config, reg *status.Registry, logger *log.Logger, opts ...game.Option) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}

	id := uuid.New()
	s := &Session{
		ID:     id,
		conn:   conn,
		config: cfg,
		logger: log.New(logger.Writer(), fmt.Sprintf("%s[session %s] ", logger.Prefix(), id.String()[:8]), logger.Flags()),
	}
	s.metrics = newSessionMetrics(reg)
	reg.Strings.Get(status.KeySessionID).Store(id.String())
	reg.Strings.Get(status.KeyPeer).Store(conn.RemoteAddr().String())

	opts = append(opts, game.WithLockObserver(s.onLock))
	s.ctrl = game.NewController(opts...)
	return s
}

// Controller exposes the session's game for inspection
func (s *Session) Controller() *game.Controller {
	return s.ctrl
}

// Run sends the initial snapshot and services commands and ticks until the
// peer disconnects, the game ends, or ctx is cancelled
// A clean peer close or game over returns nil
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()

	s.metrics.connected.Store(true)
	defer s.metrics.connected.Store(false)
	s.logger.Printf("session started, peer %s, framing %s, tick %s",
		s.conn.RemoteAddr(), s.config.Framing, s.config.TickInterval)

	if err := s.publish(); err != nil {
		return err
	}
	if s.ctrl.GameOver() {
		return s.finish()
	}

	done := make(chan struct{})
	defer close(done)
	in := make(chan inbound)
	go s.readLoop(in, done)

	var tick <-chan time.Time
	if s.config.TickInterval > 0 {
		ticker := time.NewTicker(s.config.TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("session cancelled")
			return ctx.Err()

		case msg := <-in:
			if msg.err != nil {
				return s.readError(msg.err)
			}
			cmd := protocol.ParseCommand(msg.token)
			s.metrics.commands.Add(1)
			if cmd == game.CommandNone {
				s.metrics.unknown.Add(1)
				s.logger.Printf("unknown command %q", msg.token)
			}
			s.ctrl.Handle(cmd)

		case <-tick:
			s.metrics.ticks.Add(1)
			s.ctrl.Tick()
		}

		if err := s.publish(); err != nil {
			if isPeerClosed(err) {
				s.logger.Printf("peer closed connection")
				return nil
			}
			return err
		}
		if s.ctrl.GameOver() {
			return s.finish()
		}
	}
}

// readLoop forwards tokens until the connection fails or the session ends
func (s *Session) readLoop(out chan<- inbound, done <-chan struct{}) {
	reader := protocol.NewCommandReader(s.conn, s.config.Framing)
	for {
		tok, err := reader.Next()
		select {
		case out <- inbound{token: tok, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) readError(err error) error {
	if isPeerClosed(err) {
		s.logger.Printf("peer closed connection")
		return nil
	}
	return errors.Wrap(err, "read command")
}

// publish writes the current snapshot and refreshes metrics
func (s *Session) publish() error {
	snap := s.ctrl.Snapshot()
	if err := s.write(protocol.EncodeSnapshot(snap)); err != nil {
		return errors.Wrap(err, "send snapshot")
	}

	stats := s.ctrl.Stats()
	board := s.ctrl.Board()
	s.metrics.snapshots.Add(1)
	s.metrics.pieces.Store(int64(stats.PiecesLocked))
	s.metrics.lines.Store(int64(stats.LinesCleared))
	s.metrics.fill.Store(float64(board.Count()) / float64(game.Width*game.Height))
	s.metrics.state.Store(s.ctrl.StateName())
	s.metrics.board.Store(snap.String())
	return nil
}

// finish announces game over and ends the session
func (s *Session) finish() error {
	stats := s.ctrl.Stats()
	s.logger.Printf("game over: %d pieces locked, %d lines cleared", stats.PiecesLocked, stats.LinesCleared)
	if !s.config.AnnounceGameOver {
		return nil
	}
	if err := s.write(protocol.EncodeGameOver()); err != nil {
		return errors.Wrap(err, "send game over")
	}
	return nil
}

func (s *Session) write(frame []byte) error {
	if s.config.WriteTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := s.conn.Write(frame)
	return err
}

// isPeerClosed reports errors that mean the other side hung up
func isPeerClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

func (s *Session) onLock(p game.Piece, cleared int) {
	s.logger.Printf("locked %s at (%d,%d), cleared %d\n%s", p.Kind, p.X, p.Y, cleared, s.ctrl.Board().String())
}
