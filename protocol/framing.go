package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/blockfall/game"
)

// MaxCommandLen bounds a single inbound command token
const MaxCommandLen = 512

// ErrFrameTooLong is returned when a line-framed command exceeds MaxCommandLen
var ErrFrameTooLong = errors.New("command exceeds maximum length")

// Framing selects how inbound command tokens are delimited
type Framing uint8

const (
	// FramingLine expects newline-terminated tokens; a trailing '\r' is dropped
	FramingLine Framing = iota
	// FramingRaw treats the bytes of each read call as one token
	FramingRaw
)

func (f Framing) String() string {
	switch f {
	case FramingLine:
		return "line"
	case FramingRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParseFraming maps a configuration name to a Framing
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return FramingLine, nil
	case "raw":
		return FramingRaw, nil
	default:
		return FramingLine, fmt.Errorf("unknown framing %q (want line or raw)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for config decoding
func (f *Framing) UnmarshalText(text []byte) error {
	parsed, err := ParseFraming(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (f Framing) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// EncodeCommand returns the bytes a client writes for cmd under framing f
func EncodeCommand(cmd game.Command, f Framing) []byte {
	tok := Token(cmd)
	if f == FramingLine {
		return []byte(tok + "\n")
	}
	return []byte(tok)
}

// CommandReader splits an inbound stream into command tokens
type CommandReader struct {
	framing Framing
	r       io.Reader
	br      *bufio.Reader
	buf     []byte
}

// NewCommandReader wraps r using framing f
func NewCommandReader(r io.Reader, f Framing) *CommandReader {
	cr := &CommandReader{framing: f, r: r}
	if f == FramingLine {
		// Room for the token plus "\r\n"
		cr.br = bufio.NewReaderSize(r, MaxCommandLen+2)
	} else {
		cr.buf = make([]byte, MaxCommandLen)
	}
	return cr
}

// Next returns the next token
// Empty lines are skipped in line framing; io.EOF signals a clean close
func (cr *CommandReader) Next() (string, error) {
	if cr.framing == FramingRaw {
		return cr.nextRaw()
	}
	return cr.nextLine()
}

func (cr *CommandReader) nextRaw() (string, error) {
	for {
		n, err := cr.r.Read(cr.buf)
		if n > 0 {
			return string(cr.buf[:n]), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (cr *CommandReader) nextLine() (string, error) {
	for {
		line, err := cr.br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", ErrFrameTooLong
		}
		if err != nil {
			// Unterminated trailing token before close is dropped
			return "", err
		}
		line = bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})
		if len(line) > MaxCommandLen {
			return "", ErrFrameTooLong
		}
		if len(line) == 0 {
			continue
		}
		return string(line), nil
	}
}
