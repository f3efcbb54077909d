// Package alert renders the end-of-session feedback. Devices without a
// vibration motor get the same pattern as a tone on the speaker: one long
// buzz on most platforms, short pulses every second on Apple platforms.
package alert

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// ErrUnavailable is returned when no audio device could be opened.
var ErrUnavailable = errors.New("alert: audio device unavailable")

// Pattern defines the shape of the feedback.
type Pattern int

const (
	PatternAuto Pattern = iota
	PatternContinuous
	PatternPulsed
)

// ParsePattern maps a configuration value to a Pattern.
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PatternAuto, nil
	case "continuous":
		return PatternContinuous, nil
	case "pulsed":
		return PatternPulsed, nil
	}
	return PatternAuto, fmt.Errorf("alert: unknown pattern %q", s)
}

func (p Pattern) String() string {
	switch p {
	case PatternContinuous:
		return "continuous"
	case PatternPulsed:
		return "pulsed"
	}
	return "auto"
}

// PatternFor returns the pattern used on the given GOOS.
func PatternFor(goos string) Pattern {
	switch goos {
	case "darwin", "ios":
		return PatternPulsed
	}
	return PatternContinuous
}

// Settings configures the feedback.
type Settings struct {
	Enabled   bool
	Pattern   Pattern
	Duration  time.Duration // total length, 10s by default
	Pulse     time.Duration // pulse period for PatternPulsed
	Beep      time.Duration // audible part of every pulse
	Frequency float64       // tone in Hz
	Volume    float64       // effects.Volume exponent, 0 is unchanged
}

// DefaultSettings returns the feedback used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Enabled:   true,
		Pattern:   PatternAuto,
		Duration:  10 * time.Second,
		Pulse:     time.Second,
		Beep:      300 * time.Millisecond,
		Frequency: 880,
	}
}

const sampleRate = beep.SampleRate(44100)

// Player plays the feedback on the speaker.
type Player struct {
	settings Settings
	sr       beep.SampleRate
	initErr  error

	mu   sync.Mutex
	play func(...beep.Streamer)
	stop func()
}

// NewPlayer initializes the speaker. A failed initialization is logged and
// reported later by Alert.
func NewPlayer(s Settings) *Player {
	p := newPlayer(s, sampleRate, speaker.Play, speaker.Clear)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		p.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p
}

func newPlayer(s Settings, sr beep.SampleRate, play func(...beep.Streamer), stop func()) *Player {
	if s.Pattern == PatternAuto {
		s.Pattern = PatternFor(runtime.GOOS)
	}
	return &Player{settings: s, sr: sr, play: play, stop: stop}
}

// Pattern returns the resolved pattern.
func (p *Player) Pattern() Pattern {
	return p.settings.Pattern
}

// Alert starts the feedback and returns without waiting for it to finish.
func (p *Player) Alert() error {
	if !p.settings.Enabled {
		return nil
	}
	if p.initErr != nil {
		return p.initErr
	}

	s, err := p.Stream()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.play(s)
	return nil
}

// Silence stops any feedback still playing.
func (p *Player) Silence() {
	if p.initErr != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

// Stream builds the finite streamer for the configured pattern.
func (p *Player) Stream() (beep.Streamer, error) {
	s := p.settings
	if s.Duration <= 0 {
		return nil, fmt.Errorf("alert: invalid duration %s", s.Duration)
	}

	var out beep.Streamer
	switch s.Pattern {
	case PatternPulsed:
		if s.Pulse <= 0 || s.Beep <= 0 || s.Beep > s.Pulse {
			return nil, fmt.Errorf("alert: invalid pulse %s/%s", s.Beep, s.Pulse)
		}
		pulses := int(s.Duration / s.Pulse)
		seq := make([]beep.Streamer, 0, pulses*2)
		for i := 0; i < pulses; i++ {
			tone, err := generators.SineTone(p.sr, s.Frequency)
			if err != nil {
				return nil, fmt.Errorf("alert: tone: %w", err)
			}
			seq = append(seq,
				beep.Take(p.sr.N(s.Beep), tone),
				beep.Silence(p.sr.N(s.Pulse-s.Beep)),
			)
		}
		out = beep.Seq(seq...)
	default:
		tone, err := generators.SineTone(p.sr, s.Frequency)
		if err != nil {
			return nil, fmt.Errorf("alert: tone: %w", err)
		}
		out = beep.Take(p.sr.N(s.Duration), tone)
	}

	if s.Volume == 0 {
		return out, nil
	}
	return &effects.Volume{
		Streamer: out,
		Base:     2,
		Volume:   s.Volume,
		Silent:   false,
	}, nil
}
