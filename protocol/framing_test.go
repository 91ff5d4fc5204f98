package protocol

import (
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/blockfall/game"
)

func TestCommandReader_Line(t *testing.T) {
	cr := NewCommandReader(strings.NewReader("move_left\r\n\nrotate\nhard_drop\ntrailing"), FramingLine)

	var got []string
	for {
		tok, err := cr.Next()
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, tok)
	}
	assert.Equal(t, []string{"move_left", "rotate", "hard_drop"}, got)
}

func TestCommandReader_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxCommandLen+10) + "\n"
	cr := NewCommandReader(strings.NewReader(long), FramingLine)

	_, err := cr.Next()
	assert.ErrorIs(t, err, ErrFrameTooLong)
}

func TestCommandReader_LineLengthLimit(t *testing.T) {
	longest := strings.Repeat("x", MaxCommandLen)
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"max with newline", longest + "\n", false},
		{"max with crlf", longest + "\r\n", false},
		{"one over with newline", longest + "x\n", true},
		{"one over with crlf", longest + "x\r\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cr := NewCommandReader(strings.NewReader(tc.input), FramingLine)
			tok, err := cr.Next()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrFrameTooLong)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, longest, tok)
		})
	}
}

func TestCommandReader_RawOneTokenPerRead(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cr := NewCommandReader(server, FramingRaw)
	go func() {
		client.Write([]byte("hard_drop"))
		client.Write([]byte("rotate"))
		client.Close()
	}()

	tok, err := cr.Next()
	require.NoError(t, err)
	assert.Equal(t, "hard_drop", tok)

	tok, err = cr.Next()
	require.NoError(t, err)
	assert.Equal(t, "rotate", tok)

	_, err = cr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseFraming(t *testing.T) {
	f, err := ParseFraming("RAW")
	require.NoError(t, err)
	assert.Equal(t, FramingRaw, f)

	f, err = ParseFraming("")
	require.NoError(t, err)
	assert.Equal(t, FramingLine, f)

	_, err = ParseFraming("length")
	assert.Error(t, err)

	var tf Framing
	require.NoError(t, tf.UnmarshalText([]byte("raw")))
	assert.Equal(t, "raw", tf.String())
}

func TestEncodeCommand(t *testing.T) {
	assert.Equal(t, "rotate\n", string(EncodeCommand(game.CommandRotate, FramingLine)))
	assert.Equal(t, "move_down", string(EncodeCommand(game.CommandSoftDrop, FramingRaw)))
}
