package client

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue gives audible feedback for game events
type Cue interface {
	LinesCleared(n int)
	Close()
}

// SilentCue discards every cue
type SilentCue struct{}

func (SilentCue) LinesCleared(int) {}
func (SilentCue) Close()           {}

const cueSampleRate = beep.SampleRate(44100)

// BeepCue plays short sine tones through the system speaker
type BeepCue struct{}

// NewBeepCue initializes the speaker; callers fall back to SilentCue on error
func NewBeepCue() (*BeepCue, error) {
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &BeepCue{}, nil
}

// LinesCleared plays one rising tone per cleared row
func (c *BeepCue) LinesCleared(n int) {
	if n <= 0 {
		return
	}
	parts := make([]beep.Streamer, 0, n)
	for i := 0; i < n; i++ {
		sine, err := generators.SineTone(cueSampleRate, 660+float64(i)*220)
		if err != nil {
			return
		}
		parts = append(parts, beep.Take(cueSampleRate.N(60*time.Millisecond), sine))
	}
	speaker.Play(beep.Seq(parts...))
}

func (c *BeepCue) Close() {
	speaker.Close()
}
