// Package client is a reference peer for the game server: it decodes snapshot
// frames and sends command tokens.
package client

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/lixenwraith/blockfall/game"
	"github.com/lixenwraith/blockfall/protocol"
)

// Frame is one decoded server message
type Frame struct {
	Board    game.Board
	GameOver bool
}

// Conn is a client connection to a game server
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	framing protocol.Framing

	writeMu sync.Mutex
}

// Dial connects to addr
func Dial(addr string, framing protocol.Framing, timeout time.Duration) (*Conn, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewConn(c, framing), nil
}

// NewConn wraps an established connection
func NewConn(c net.Conn, framing protocol.Framing) *Conn {
	return &Conn{
		conn:    c,
		reader:  bufio.NewReader(c),
		framing: framing,
	}
}

// Next blocks for the next frame
func (c *Conn) Next() (Frame, error) {
	payload, err := protocol.ReadFrame(c.reader)
	if err != nil {
		return Frame{}, err
	}
	if string(payload) == protocol.GameOverNotice {
		return Frame{GameOver: true}, nil
	}
	b, err := protocol.DecodeSnapshot(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Board: b}, nil
}

// Send writes one command; safe for concurrent use
func (c *Conn) Send(cmd game.Command) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write(protocol.EncodeCommand(cmd, c.framing))
	return err
}

// Close closes the connection
func (c *Conn) Close() error {
	return c.conn.Close()
}

// LinesCleared estimates rows removed between two consecutive snapshots
// A lock replaces the falling piece with a fresh spawn, so without clears the
// count grows by one piece; each cleared row removes Width cells
func LinesCleared(prev, next game.Board) int {
	lost := prev.Count() + game.PieceCells - next.Count()
	if lost < game.Width {
		return 0
	}
	return lost / game.Width
}
