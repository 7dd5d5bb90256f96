// Package sound plays the start and end cues. Cues are synthesized tones, so
// there are no assets to load; when no audio device is available the player
// falls back to the terminal bell.
package sound

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/adibhanna/pomodoro/internal/core/engine"
)

const SampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[engine.SoundKind][]note{
	engine.SoundStart: {{660, 90 * time.Millisecond}, {880, 140 * time.Millisecond}},
	engine.SoundEnd:   {{880, 160 * time.Millisecond}, {660, 160 * time.Millisecond}, {990, 320 * time.Millisecond}},
}

const (
	amplitude = 0.3
	noteGap   = 40 * time.Millisecond
)

// Tone is a sine wave of freq Hz lasting d, with a short linear fade at both
// ends to avoid clicks.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	fade := sr.N(5 * time.Millisecond)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1.0
			if fade > 0 {
				env = math.Min(1, math.Min(float64(pos)/float64(fade), float64(total-pos)/float64(fade)))
			}
			v := amplitude * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// Cue returns the streamer for kind, or nil for an unknown kind.
func Cue(sr beep.SampleRate, kind engine.SoundKind) beep.Streamer {
	notes, ok := cues[kind]
	if !ok {
		return nil
	}
	var parts []beep.Streamer
	for i, n := range notes {
		if i > 0 {
			parts = append(parts, beep.Silence(sr.N(noteGap)))
		}
		parts = append(parts, Tone(sr, n.freq, n.dur))
	}
	return beep.Seq(parts...)
}

// Speaker plays cues on the default audio device. The device is opened on
// the first cue; if that fails every cue goes to the fallback instead.
type Speaker struct {
	once     sync.Once
	initErr  error
	fallback engine.SoundPlayer

	open func(beep.SampleRate) error
	play func(beep.Streamer)
}

func NewSpeaker(fallback engine.SoundPlayer) *Speaker {
	if fallback == nil {
		fallback = Silent{}
	}
	return &Speaker{
		fallback: fallback,
		open: func(sr beep.SampleRate) error {
			return speaker.Init(sr, sr.N(time.Second/10))
		},
		play: func(s beep.Streamer) { speaker.Play(s) },
	}
}

func (s *Speaker) Play(kind engine.SoundKind) {
	s.once.Do(func() {
		s.initErr = s.open(SampleRate)
		if s.initErr != nil {
			log.Printf("audio unavailable, using terminal bell: %v", s.initErr)
		}
	})
	if s.initErr != nil {
		s.fallback.Play(kind)
		return
	}
	if cue := Cue(SampleRate, kind); cue != nil {
		s.play(cue)
	}
}

// Bell rings the terminal bell: once for a start, twice for an end.
type Bell struct {
	W io.Writer
}

func (b Bell) Play(kind engine.SoundKind) {
	if b.W == nil {
		return
	}
	rings := "\a"
	if kind == engine.SoundEnd {
		rings = "\a\a"
	}
	if _, err := fmt.Fprint(b.W, rings); err != nil {
		log.Printf("ringing bell: %v", err)
	}
}

// Silent discards every cue.
type Silent struct{}

func (Silent) Play(engine.SoundKind) {}

// New returns the player for the configuration: the speaker with a bell
// fallback when enabled, otherwise Silent.
func New(enabled bool, bell io.Writer) engine.SoundPlayer {
	if !enabled {
		return Silent{}
	}
	return NewSpeaker(Bell{W: bell})
}
