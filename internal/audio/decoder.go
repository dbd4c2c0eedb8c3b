package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrDecodeFailed marks input that could not be turned into PCM. It is
// fatal for the session: the wrapped message carries ffmpeg's own
// reason so the user can see what was wrong with the file.
var ErrDecodeFailed = errors.New("decode failed")

// DecodeOptions selects the PCM format ffmpeg produces.
type DecodeOptions struct {
	SampleRate int // output rate in Hz
	Channels   int // output channel count
}

// DefaultDecodeOptions matches the analysis defaults: mono at 44.1 kHz.
// Boundary detection only needs a mono mixdown; anything stereo in the
// source is folded by ffmpeg before we ever see it.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{SampleRate: 44100, Channels: 1}
}

// Decode runs ffmpeg against the input file and captures raw signed
// 16-bit little-endian PCM from its stdout, rescaled to float64.
// Cancelling the context kills the child process.
func Decode(ctx context.Context, path string, opts DecodeOptions) (*SampleBuffer, error) {
	if opts.SampleRate <= 0 || opts.Channels <= 0 {
		return nil, fmt.Errorf("audio: rate %d / channels %d: %w", opts.SampleRate, opts.Channels, ErrDecodeFailed)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", decodeArgs(path, opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		return nil, fmt.Errorf("audio: ffmpeg %s: %s: %w", path, reason, ErrDecodeFailed)
	}

	samples := parseS16LE(out)
	if len(samples) == 0 {
		return nil, fmt.Errorf("audio: %s decoded to an empty stream: %w", path, ErrDecodeFailed)
	}
	// Drop a ragged tail so every tick carries all channels.
	if rem := len(samples) % opts.Channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	return &SampleBuffer{Samples: samples, Channels: opts.Channels, SampleRate: opts.SampleRate}, nil
}

// decodeArgs builds the ffmpeg invocation: PCM on stdout, diagnostics
// only on stderr.
func decodeArgs(path string, opts DecodeOptions) []string {
	return []string{
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(opts.SampleRate),
		"-ac", strconv.Itoa(opts.Channels),
		"-loglevel", "error",
		"pipe:1",
	}
}

// parseS16LE converts little-endian int16 bytes to float64 in [-1, 1).
// An odd trailing byte (a truncated sample) is dropped.
func parseS16LE(raw []byte) []float64 {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(s) / 32768.0
	}
	return samples
}
