package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockfall/client"
	"github.com/lixenwraith/blockfall/game"
	"github.com/lixenwraith/blockfall/protocol"
)

var (
	addrFlag    = flag.String("addr", "127.0.0.1:12345", "Server address")
	framingFlag = flag.String("framing", "line", "Command framing: line or raw")
	muteFlag    = flag.Bool("mute", false, "Disable sound")
)

// frameMsg carries one server frame or the terminal read error
type frameMsg struct {
	frame client.Frame
	err   error
}

func main() {
	flag.Parse()

	framing, err := protocol.ParseFraming(*framingFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	conn, err := client.Dial(*addrFlag, framing, 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nBLOCKFALL CLIENT CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	var cue client.Cue = client.SilentCue{}
	if !*muteFlag {
		if beepCue, err := client.NewBeepCue(); err == nil {
			cue = beepCue
		}
	}
	defer cue.Close()

	msg := run(screen, conn, cue)
	screen.Fini()
	if msg != "" {
		fmt.Println(msg)
	}
}

// run drives the UI until the user quits or the connection fails mid-game
// Returns a message to print after the screen is restored
func run(screen tcell.Screen, conn *client.Conn, cue client.Cue) string {
	view := client.NewView(screen)

	frameCh := make(chan frameMsg, 16)
	go func() {
		for {
			f, err := conn.Next()
			frameCh <- frameMsg{frame: f, err: err}
			if err != nil {
				return
			}
		}
	}()
	frames := (<-chan frameMsg)(frameCh)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var (
		last     game.Board
		haveLast bool
		lines    int
		gameOver bool
	)

	for {
		select {
		case m := <-frames:
			if m.err != nil {
				if gameOver {
					// Keep the final board up until the user quits
					frames = nil
					continue
				}
				return fmt.Sprintf("connection closed: %v", m.err)
			}
			if m.frame.GameOver {
				gameOver = true
				view.Draw(last, true)
				continue
			}
			if haveLast {
				if n := client.LinesCleared(last, m.frame.Board); n > 0 {
					lines += n
					view.SetLines(lines)
					cue.LinesCleared(n)
				}
			}
			last, haveLast = m.frame.Board, true
			view.Draw(last, false)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if client.IsQuit(ev.Key(), ev.Rune()) {
					if gameOver {
						return fmt.Sprintf("game over, %d lines cleared", lines)
					}
					return ""
				}
				if gameOver {
					continue
				}
				if cmd, ok := client.KeyCommand(ev.Key(), ev.Rune()); ok {
					if err := conn.Send(cmd); err != nil {
						return fmt.Sprintf("send failed: %v", err)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
				view.Draw(last, gameOver)
			}
		}
	}
}
