package audio

import (
	"testing"
	"time"
)

func TestTotalSamples(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		channels int
		want     int
	}{
		{name: "mono", samples: 1000, channels: 1, want: 1000},
		{name: "stereo interleaved", samples: 1000, channels: 2, want: 500},
		{name: "empty", samples: 0, channels: 1, want: 0},
		{name: "zero channels", samples: 100, channels: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &SampleBuffer{Samples: make([]float64, tt.samples), Channels: tt.channels, SampleRate: 44100}
			if got := buf.TotalSamples(); got != tt.want {
				t.Errorf("TotalSamples() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	buf := &SampleBuffer{Samples: make([]float64, 44100*2), Channels: 2, SampleRate: 44100}
	if got := buf.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
}

func TestSliceInterleaved(t *testing.T) {
	// Two channels: tick t holds values t and -t.
	buf := &SampleBuffer{Channels: 2, SampleRate: 8000}
	for tick := 0; tick < 10; tick++ {
		buf.Samples = append(buf.Samples, float64(tick), -float64(tick))
	}

	got := buf.Slice(3, 5)
	want := []float64{3, -3, 4, -4}
	if len(got) != len(want) {
		t.Fatalf("Slice(3,5) returned %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice(3,5)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		rate    int
		want    string
	}{
		{name: "zero", samples: 0, rate: 44100, want: "0:00.0"},
		{name: "five seconds", samples: 80000, rate: 16000, want: "0:05.0"},
		{name: "over a minute", samples: 16000 * 75, rate: 16000, want: "1:15.0"},
		{name: "tenths", samples: 16000 + 1600, rate: 16000, want: "0:01.1"},
		{name: "bad rate falls back", samples: 100, rate: 0, want: "0:00.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timecode(tt.samples, tt.rate); got != tt.want {
				t.Errorf("Timecode(%d, %d) = %q, want %q", tt.samples, tt.rate, got, tt.want)
			}
		})
	}
}
