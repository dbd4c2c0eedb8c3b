package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tapeworks/bandsaw/internal/audio"
)

// DefaultBitrate is the MP3 bitrate used for uploads.
const DefaultBitrate = "192k"

// ErrEncodeFailed marks a segment that could not be rendered as MP3.
// Like decoding, the wrapped message carries ffmpeg's own reason.
var ErrEncodeFailed = errors.New("encode failed")

// EncodeMP3 renders the per-channel range [start, end) as MP3 by
// piping a WAV through ffmpeg. Cancelling the context kills the child
// process. The whole encoded stream is returned in memory; upload
// tracks are minutes long, not hours.
func EncodeMP3(ctx context.Context, buf *audio.SampleBuffer, start, end int, bitrate string) ([]byte, error) {
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	if buf == nil || start < 0 || end > buf.TotalSamples() || start >= end {
		return nil, fmt.Errorf("export: mp3 range [%d, %d): %w", start, end, ErrEncodeFailed)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", encodeArgs(bitrate)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("export: starting ffmpeg: %s: %w", err, ErrEncodeFailed)
	}

	// exec drains stdout concurrently, so feeding stdin from here
	// cannot deadlock. If ffmpeg dies early the write fails and Wait
	// below carries the real reason.
	writeErr := audio.WriteWAV(stdin, buf, start, end)
	if err := stdin.Close(); writeErr == nil {
		writeErr = err
	}

	if err := cmd.Wait(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		return nil, fmt.Errorf("export: ffmpeg mp3: %s: %w", reason, ErrEncodeFailed)
	}
	if writeErr != nil {
		return nil, fmt.Errorf("export: feeding ffmpeg: %w", writeErr)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("export: ffmpeg produced an empty mp3 stream: %w", ErrEncodeFailed)
	}
	return stdout.Bytes(), nil
}

// encodeArgs builds the ffmpeg invocation: WAV on stdin, MP3 on
// stdout, diagnostics only on stderr.
func encodeArgs(bitrate string) []string {
	return []string{
		"-i", "pipe:0",
		"-f", "mp3",
		"-acodec", "libmp3lame",
		"-b:a", bitrate,
		"-loglevel", "error",
		"pipe:1",
	}
}
