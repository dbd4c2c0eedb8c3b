package audio

import (
	"math"
	"testing"
)

func TestPeaks(t *testing.T) {
	t.Run("normalizes loudest bar to one", func(t *testing.T) {
		buf := &SampleBuffer{Channels: 1, SampleRate: 8000}
		buf.Samples = make([]float64, 8000)
		// Quiet everywhere except a single loud excursion.
		for i := range buf.Samples {
			buf.Samples[i] = 0.1
		}
		buf.Samples[4000] = -0.8

		bars := Peaks(buf, 100)
		if len(bars) != 100 {
			t.Fatalf("got %d bars, want 100", len(bars))
		}
		var max float64
		for _, b := range bars {
			if b > max {
				max = b
			}
		}
		if math.Abs(max-1.0) > 1e-12 {
			t.Errorf("max bar = %v, want 1.0", max)
		}
		// The quiet bars should sit at 0.1/0.8.
		if got, want := bars[0], 0.125; math.Abs(got-want) > 1e-9 {
			t.Errorf("quiet bar = %v, want %v", got, want)
		}
	})

	t.Run("silence yields all zero bars", func(t *testing.T) {
		buf := &SampleBuffer{Samples: make([]float64, 4000), Channels: 1, SampleRate: 8000}
		for i, b := range Peaks(buf, 50) {
			if b != 0 {
				t.Fatalf("bar %d = %v, want 0", i, b)
			}
		}
	})

	t.Run("buffer shorter than bar count", func(t *testing.T) {
		buf := &SampleBuffer{Samples: []float64{0.5, 0.25, 0.0}, Channels: 1, SampleRate: 8000}
		bars := Peaks(buf, 10)
		if len(bars) != 10 {
			t.Fatalf("got %d bars, want 10", len(bars))
		}
		if bars[0] != 1.0 {
			t.Errorf("bar 0 = %v, want 1.0", bars[0])
		}
		// Bars past the data stay zero rather than repeating samples.
		for i := 3; i < 10; i++ {
			if bars[i] != 0 {
				t.Errorf("bar %d = %v, want 0", i, bars[i])
			}
		}
	})

	t.Run("stereo uses both channels", func(t *testing.T) {
		// Loud sample only on the right channel.
		buf := &SampleBuffer{Channels: 2, SampleRate: 8000}
		for tick := 0; tick < 100; tick++ {
			r := 0.0
			if tick == 10 {
				r = 0.9
			}
			buf.Samples = append(buf.Samples, 0.0, r)
		}
		bars := Peaks(buf, 10)
		if bars[1] != 1.0 {
			t.Errorf("bar holding the right-channel peak = %v, want 1.0", bars[1])
		}
	})

	t.Run("zero bars requested", func(t *testing.T) {
		buf := &SampleBuffer{Samples: make([]float64, 100), Channels: 1, SampleRate: 8000}
		if bars := Peaks(buf, 0); bars != nil {
			t.Errorf("Peaks(_, 0) = %v, want nil", bars)
		}
	})
}
