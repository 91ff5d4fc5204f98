package client

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockfall/game"
)

// Each board cell is drawn two columns wide to keep it roughly square
const cellWidth = 2

var (
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleFilled = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleAlert  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// View draws snapshots to a tcell screen
type View struct {
	screen tcell.Screen
	lines  int
}

func NewView(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// SetLines records the running line-clear estimate shown in the side panel
func (v *View) SetLines(n int) {
	v.lines = n
}

// Draw renders the board inside a border, with status text on the right
func (v *View) Draw(b game.Board, gameOver bool) {
	s := v.screen
	s.Clear()

	// Border occupies column 0 and row Height+1
	for y := 0; y < game.Height; y++ {
		s.SetContent(0, y, '│', nil, styleBorder)
		s.SetContent(1+game.Width*cellWidth, y, '│', nil, styleBorder)
	}
	for x := 0; x < game.Width*cellWidth+2; x++ {
		s.SetContent(x, game.Height, '─', nil, styleBorder)
	}

	for y := 0; y < game.Height; y++ {
		for x := 0; x < game.Width; x++ {
			left, right, style := '·', ' ', styleEmpty
			if b.IsOccupied(x, y) {
				left, right, style = '█', '█', styleFilled
			}
			s.SetContent(1+x*cellWidth, y, left, nil, style)
			s.SetContent(2+x*cellWidth, y, right, nil, style)
		}
	}

	panel := game.Width*cellWidth + 4
	v.text(panel, 0, styleText, "blockfall")
	v.text(panel, 2, styleText, fmt.Sprintf("lines %d", v.lines))
	v.text(panel, 4, styleText, "←/→ move  ↑ rotate")
	v.text(panel, 5, styleText, "↓ drop  space hard drop")
	v.text(panel, 6, styleText, "q quit")
	if gameOver {
		v.text(panel, 8, styleAlert, "GAME OVER")
	}
	s.Show()
}

func (v *View) text(x, y int, style tcell.Style, str string) {
	for _, r := range str {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// KeyCommand maps a key press to a command; ok is false for keys that are not game input
func KeyCommand(key tcell.Key, r rune) (game.Command, bool) {
	switch key {
	case tcell.KeyLeft:
		return game.CommandMoveLeft, true
	case tcell.KeyRight:
		return game.CommandMoveRight, true
	case tcell.KeyDown:
		return game.CommandSoftDrop, true
	case tcell.KeyUp:
		return game.CommandRotate, true
	case tcell.KeyRune:
		switch r {
		case ' ':
			return game.CommandHardDrop, true
		case 'h', 'a':
			return game.CommandMoveLeft, true
		case 'l', 'd':
			return game.CommandMoveRight, true
		case 'j', 's':
			return game.CommandSoftDrop, true
		case 'k', 'w':
			return game.CommandRotate, true
		}
	}
	return game.CommandNone, false
}

// IsQuit reports key presses that end the client
func IsQuit(key tcell.Key, r rune) bool {
	return key == tcell.KeyEscape || key == tcell.KeyCtrlC || (key == tcell.KeyRune && r == 'q')
}
