package splitter

import (
	"math"

	"github.com/tapeworks/bandsaw/internal/audio"
)

// silentPowerFloor is the total spectral power below which a frame is
// treated as silent and reports zero bandwidth instead of dividing by
// a vanishing denominator.
const silentPowerFloor = 1e-20

// FrameFeature carries the two per-frame measurements boundary
// detection consumes.
type FrameFeature struct {
	Index       int
	StartSample int     // per-channel offset of the frame start
	Energy      float64 // RMS amplitude, non-negative
	Bandwidth   float64 // spread around the spectral centroid, Hz
}

// Extract slides a window of frameSize samples over the buffer,
// advancing hopSize per frame, and measures RMS energy and spectral
// bandwidth for each window. Multi-channel audio contributes all
// channels to the RMS and is mixed to a per-tick channel mean for the
// spectral estimate.
//
// Tail policy: a trailing partial window is dropped, so the frame
// count is 1 + (total-frameSize)/hopSize. The one exception is a
// buffer shorter than a single window, which yields exactly one frame
// measured over the zero-padded buffer. Both behaviors are pinned by
// tests.
//
// The spectral estimate uses a Hann window; a rectangular window leaks
// enough energy across bins to inflate the bandwidth of pure tones,
// which would weaken the detector's tonal-content check.
//
// Extract is a pure function of its input: no side effects, same
// features for the same buffer every time. Structurally invalid input
// (nil/empty buffer, non-positive sizes) yields nil.
func Extract(buf *audio.SampleBuffer, frameSize, hopSize int) []FrameFeature {
	if buf == nil || frameSize <= 0 || hopSize <= 0 {
		return nil
	}
	total := buf.TotalSamples()
	if total == 0 {
		return nil
	}

	numFrames := 1
	if total >= frameSize {
		numFrames = 1 + (total-frameSize)/hopSize
	}

	window := hannWindow(frameSize)
	mono := make([]float64, frameSize)
	features := make([]FrameFeature, 0, numFrames)

	for f := 0; f < numFrames; f++ {
		start := f * hopSize
		mixdown(buf, start, mono)
		features = append(features, FrameFeature{
			Index:       f,
			StartSample: start,
			Energy:      frameRMS(buf, start, frameSize),
			Bandwidth:   spectralBandwidth(mono, window, buf.SampleRate),
		})
	}
	return features
}

// frameRMS is the root-mean-square amplitude of one window across all
// channels. Ticks past the buffer end count as zeros, which only
// happens for the degenerate shorter-than-one-frame buffer.
func frameRMS(buf *audio.SampleBuffer, start, frameSize int) float64 {
	total := buf.TotalSamples()
	ch := buf.Channels
	end := start + frameSize
	if end > total {
		end = total
	}

	var sum float64
	for t := start; t < end; t++ {
		base := t * ch
		for c := 0; c < ch; c++ {
			s := buf.Samples[base+c]
			sum += s * s
		}
	}
	return math.Sqrt(sum / float64(frameSize*ch))
}

// mixdown fills dst with the per-tick channel mean starting at the
// given offset, padding past the buffer end with zeros.
func mixdown(buf *audio.SampleBuffer, start int, dst []float64) {
	total := buf.TotalSamples()
	ch := buf.Channels
	for i := range dst {
		t := start + i
		if t >= total {
			dst[i] = 0
			continue
		}
		base := t * ch
		var sum float64
		for c := 0; c < ch; c++ {
			sum += buf.Samples[base+c]
		}
		dst[i] = sum / float64(ch)
	}
}

// spectralBandwidth is the power-weighted standard deviation of
// frequency around the spectral centroid of one windowed frame.
// Frames with negligible total power report zero.
func spectralBandwidth(frame, window []float64, sampleRate int) float64 {
	shaped := make([]float64, len(frame))
	for i := range frame {
		shaped[i] = frame[i] * window[i]
	}

	re, im := fftReal(shaped)
	nfft := len(re)
	bins := nfft/2 + 1

	power := make([]float64, bins)
	var totalPower float64
	for k := 0; k < bins; k++ {
		p := re[k]*re[k] + im[k]*im[k]
		power[k] = p
		totalPower += p
	}
	if totalPower < silentPowerFloor {
		return 0
	}

	binHz := float64(sampleRate) / float64(nfft)
	var centroid float64
	for k, p := range power {
		centroid += float64(k) * binHz * p
	}
	centroid /= totalPower

	var variance float64
	for k, p := range power {
		d := float64(k)*binHz - centroid
		variance += d * d * p
	}
	return math.Sqrt(variance / totalPower)
}

// hannWindow is the symmetric raised-cosine window, tapering frame
// edges to zero to limit spectral leakage.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
