package splitter

import (
	"math"
	"testing"

	"github.com/tapeworks/bandsaw/internal/audio"
)

// signal builds synthetic mono test audio section by section. Sections
// are appended in call order, so a recording with a gap in the middle
// reads as tone / silence / tone.
type signal struct {
	rate     int
	samples  []float64
	rngState uint32
}

func newSignal(rate int) *signal {
	return &signal{rate: rate, rngState: 12345}
}

// tone appends secs seconds of a sine at the given frequency and
// linear amplitude.
func (s *signal) tone(freq, amp, secs float64) *signal {
	n := int(secs * float64(s.rate))
	start := len(s.samples)
	for i := 0; i < n; i++ {
		t := float64(start+i) / float64(s.rate)
		s.samples = append(s.samples, amp*math.Sin(2*math.Pi*freq*t))
	}
	return s
}

// noise appends secs seconds of uniform noise at the given amplitude,
// from a small deterministic linear congruential generator.
func (s *signal) noise(amp, secs float64) *signal {
	n := int(secs * float64(s.rate))
	for i := 0; i < n; i++ {
		s.rngState = s.rngState*1664525 + 1013904223
		v := (float64(s.rngState)/float64(math.MaxUint32))*2 - 1
		s.samples = append(s.samples, amp*v)
	}
	return s
}

// silence appends secs seconds of zeros.
func (s *signal) silence(secs float64) *signal {
	n := int(secs * float64(s.rate))
	s.samples = append(s.samples, make([]float64, n)...)
	return s
}

func (s *signal) buffer(t *testing.T) *audio.SampleBuffer {
	t.Helper()
	cp := make([]float64, len(s.samples))
	copy(cp, s.samples)
	return &audio.SampleBuffer{
		Samples:    cp,
		Channels:   1,
		SampleRate: s.rate,
	}
}

// testConfig matches the settings the detection scenarios were sized
// for: 64 ms frames at 16 kHz keep the tests fast while leaving
// enough frames inside a 2 second gap.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameSize = 1024
	cfg.HopSize = 512
	return cfg
}

func extractWith(t *testing.T, buf *audio.SampleBuffer, cfg Config) []FrameFeature {
	t.Helper()
	features := Extract(buf, cfg.FrameSize, cfg.HopSize)
	if features == nil {
		t.Fatal("Extract returned no features")
	}
	return features
}
