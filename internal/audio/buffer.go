// Package audio provides PCM decode/encode plumbing for bandsaw.
// Decoding shells out to ffmpeg so any container or codec ffmpeg
// understands can be ingested; everything in-process only ever sees
// raw PCM samples.
package audio

import (
	"fmt"
	"time"
)

// SampleBuffer holds one decoded recording. Samples are interleaved
// float64 in [-1, 1]. The buffer is never mutated after decode; the
// splitter and the track store reference it by per-channel sample
// offsets only.
type SampleBuffer struct {
	Samples    []float64
	Channels   int
	SampleRate int
}

// TotalSamples returns the per-channel sample count. Every offset in
// the detection pipeline and the segment model is in these units.
func (b *SampleBuffer) TotalSamples() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length as wall-clock time.
func (b *SampleBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	secs := float64(b.TotalSamples()) / float64(b.SampleRate)
	return time.Duration(secs * float64(time.Second))
}

// Slice returns the interleaved samples covering the per-channel range
// [start, end). The slice aliases the buffer; callers must not write
// through it. Ranges come from the track store, which guarantees them
// valid, so a bad range panics like any other slice misuse.
func (b *SampleBuffer) Slice(start, end int) []float64 {
	return b.Samples[start*b.Channels : end*b.Channels]
}

// Timecode formats a sample offset as m:ss.t for display.
func Timecode(samples, rate int) string {
	if rate <= 0 {
		return "0:00.0"
	}
	secs := float64(samples) / float64(rate)
	mins := int(secs) / 60
	return fmt.Sprintf("%d:%04.1f", mins, secs-float64(mins*60))
}
