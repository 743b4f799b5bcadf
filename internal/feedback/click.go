// Package feedback plays a short detent click as the ruler crosses ticks.
package feedback

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const (
	sampleRate = beep.SampleRate(44100)

	minorFreq   = 1760.0
	majorFreq   = 880.0
	clickLength = 12 * time.Millisecond
	// a fast fling crosses far more ticks than can be heard apart
	minGap = 25 * time.Millisecond
)

// Clicker plays detent clicks. The zero value is silent.
type Clicker struct {
	log   *zap.Logger
	play  func(beep.Streamer)
	now   func() time.Time
	last  time.Time
	ready bool
}

// NewClicker opens the speaker. Audio failing to start is not fatal: the
// clicker logs it and stays silent.
func NewClicker(log *zap.Logger) *Clicker {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Clicker{log: log, play: speaker.Play, now: time.Now}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn("audio unavailable, clicks disabled", zap.Error(err))
		return c
	}
	c.ready = true
	return c
}

// Detent clicks once for a tick crossing. Major ticks click lower.
func (c *Clicker) Detent(major bool) {
	if c == nil || !c.ready {
		return
	}
	now := c.now()
	if now.Sub(c.last) < minGap {
		return
	}
	c.last = now
	freq := minorFreq
	if major {
		freq = majorFreq
	}
	s, err := Click(sampleRate, freq, clickLength)
	if err != nil {
		c.log.Debug("click", zap.Error(err))
		return
	}
	c.play(s)
}

func (c *Clicker) Close() {
	if c != nil && c.ready {
		speaker.Close()
		c.ready = false
	}
}

// Click is a sine burst of length d that fades out linearly.
func Click(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	n := sr.N(d)
	return &effects.Volume{
		Streamer: &fade{Streamer: beep.Take(n, sine), total: n},
		Base:     2,
		Volume:   -2,
	}, nil
}

type fade struct {
	beep.Streamer
	total, pos int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := range n {
		g := 1 - float64(f.pos)/float64(f.total)
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}
