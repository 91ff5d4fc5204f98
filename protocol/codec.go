// Package protocol implements the ASCII wire format: length-prefixed outbound
// frames carrying board snapshots and inbound command tokens.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/lixenwraith/blockfall/game"
)

// SnapshotLen is the payload length of a snapshot frame
const SnapshotLen = game.Width * game.Height

// GameOverNotice is the payload of the frame sent after the final snapshot
const GameOverNotice = "game_over"

// MaxFramePayload bounds inbound frame payloads accepted by ReadFrame
const MaxFramePayload = 64 * 1024

var (
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrMalformedPayload = errors.New("malformed snapshot payload")
)

// Command tokens, exact match
var tokens = map[string]game.Command{
	"move_left":  game.CommandMoveLeft,
	"move_right": game.CommandMoveRight,
	"move_down":  game.CommandSoftDrop,
	"rotate":     game.CommandRotate,
	"hard_drop":  game.CommandHardDrop,
}

// ParseCommand maps a token to a command; unknown tokens map to CommandNone
func ParseCommand(token string) game.Command {
	if cmd, ok := tokens[token]; ok {
		return cmd
	}
	return game.CommandNone
}

// commandTokens is the reverse of tokens, indexed by command
var commandTokens [game.CommandHardDrop + 1]string

func init() {
	for tok, cmd := range tokens {
		commandTokens[cmd] = tok
	}
}

// Token returns the wire token for cmd, or "" for CommandNone and unknown values
func Token(cmd game.Command) string {
	if int(cmd) >= len(commandTokens) {
		return ""
	}
	return commandTokens[cmd]
}

// AppendFrame appends "<len>:<payload>" to dst
func AppendFrame(dst, payload []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, ':')
	return append(dst, payload...)
}

// AppendSnapshot appends the snapshot payload: W*H '0'/'1' characters, row-major
func AppendSnapshot(dst []byte, b game.Board) []byte {
	for y := 0; y < game.Height; y++ {
		for x := 0; x < game.Width; x++ {
			if b.IsOccupied(x, y) {
				dst = append(dst, '1')
			} else {
				dst = append(dst, '0')
			}
		}
	}
	return dst
}

// EncodeSnapshot returns a complete snapshot frame
func EncodeSnapshot(b game.Board) []byte {
	payload := AppendSnapshot(make([]byte, 0, SnapshotLen), b)
	return AppendFrame(make([]byte, 0, SnapshotLen+4), payload)
}

// EncodeGameOver returns the game-over notice frame
func EncodeGameOver() []byte {
	return AppendFrame(nil, []byte(GameOverNotice))
}

// DecodeSnapshot parses a snapshot payload back into a board
func DecodeSnapshot(payload []byte) (game.Board, error) {
	var b game.Board
	if len(payload) != SnapshotLen {
		return b, fmt.Errorf("%w: length %d, want %d", ErrMalformedPayload, len(payload), SnapshotLen)
	}
	for i, ch := range payload {
		switch ch {
		case '1':
			b.Occupy(i%game.Width, i/game.Width)
		case '0':
		default:
			return b, fmt.Errorf("%w: byte %q at %d", ErrMalformedPayload, ch, i)
		}
	}
	return b, nil
}

// ReadFrame reads one "<len>:<payload>" frame
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	n := 0
	digits := 0
	for {
		ch, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && digits > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if ch == ':' {
			break
		}
		if ch < '0' || ch > '9' {
			return nil, fmt.Errorf("%w: unexpected byte %q in length", ErrMalformedFrame, ch)
		}
		n = n*10 + int(ch-'0')
		digits++
		if n > MaxFramePayload {
			return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrMalformedFrame, MaxFramePayload)
		}
	}
	if digits == 0 {
		return nil, fmt.Errorf("%w: missing length", ErrMalformedFrame)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}
