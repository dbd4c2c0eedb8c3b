package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAV container layout for 16-bit PCM.
const (
	wavFmtChunkSize  = 16 // PCM fmt chunk payload bytes
	wavFormatPCM     = 1
	wavBitsPerSample = 16
	wavHeaderExtra   = 36 // RIFF size field counts everything after itself except data
)

// WriteWAV writes the per-channel sample range [start, end) of the
// buffer as a 16-bit PCM RIFF/WAVE stream. Samples outside [-1, 1] are
// clipped rather than wrapped.
func WriteWAV(w io.Writer, buf *SampleBuffer, start, end int) error {
	if start < 0 || end > buf.TotalSamples() || start >= end {
		return fmt.Errorf("audio: wav range [%d, %d) outside buffer of %d samples", start, end, buf.TotalSamples())
	}

	src := buf.Slice(start, end)
	dataSize := len(src) * 2

	byteRate := buf.SampleRate * buf.Channels * wavBitsPerSample / 8
	blockAlign := buf.Channels * wavBitsPerSample / 8

	if _, err := w.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(wavHeaderExtra+dataSize)); err != nil {
		return err
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return err
	}

	if _, err := w.Write([]byte("fmt ")); err != nil {
		return err
	}
	for _, field := range []any{
		uint32(wavFmtChunkSize),
		uint16(wavFormatPCM),
		uint16(buf.Channels),
		uint32(buf.SampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(wavBitsPerSample),
	} {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("data")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(dataSize)); err != nil {
		return err
	}

	pcm := make([]int16, len(src))
	for i, s := range src {
		pcm[i] = pcmSample(s)
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}

// pcmSample converts one float sample to int16, clipping out-of-range
// values at the rails.
func pcmSample(s float64) int16 {
	v := s * 32767.0
	switch {
	case v > 32767.0:
		return 32767
	case v < -32768.0:
		return -32768
	}
	return int16(v)
}
