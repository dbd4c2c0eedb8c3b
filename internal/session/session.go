// Package session ties the pipeline together: decode a recording,
// extract frame features, detect track boundaries, and seed the
// editable track store. One Session corresponds to one input file.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/logging"
	"github.com/tapeworks/bandsaw/internal/splitter"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// Session holds everything downstream consumers need: the decoded
// samples, the detection outcome, and the track store the editor
// mutates. The buffer itself is immutable after Analyze returns.
type Session struct {
	ID         string
	SourcePath string
	Buffer     *audio.SampleBuffer
	Store      *tracks.Store
	Config     splitter.Config
	Stats      splitter.Stats
	Boundaries []int
	Peaks      []float64
	Elapsed    time.Duration
}

// Analyze decodes path and runs boundary detection over it. The
// logger must be non-nil; pass logging.Discard() to silence it.
// Cancelling the context kills the decode.
func Analyze(ctx context.Context, path string, dec audio.DecodeOptions, cfg splitter.Config, logger hclog.Logger) (*Session, error) {
	start := time.Now()

	logger.Debug("decoding input", "path", path, "rate", dec.SampleRate, "channels", dec.Channels)
	buf, err := audio.Decode(ctx, path, dec)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("decoded", "samples", buf.TotalSamples(), "duration", buf.Duration())

	features := splitter.Extract(buf, cfg.FrameSize, cfg.HopSize)
	boundaries, stats := splitter.DetectStats(features, buf.SampleRate, cfg)
	logger.Debug("detection finished",
		"frames", stats.Frames,
		"quiet_runs", stats.Runs,
		"confirmed", stats.ConfirmedRuns,
		"boundaries", stats.Boundaries)

	segments, err := tracks.Build(buf.TotalSamples(), boundaries)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		ID:         uuid.New().String()[:8],
		SourcePath: path,
		Buffer:     buf,
		Store:      tracks.NewStore(segments),
		Config:     cfg,
		Stats:      stats,
		Boundaries: boundaries,
		Peaks:      audio.Peaks(buf, audio.DefaultPeakBars),
		Elapsed:    time.Since(start),
	}
	logger.Debug("session ready", "id", s.ID, "tracks", s.Store.Len(), "elapsed", s.Elapsed)
	return s, nil
}

// DefaultArchiveName derives the ZIP name from the input file stem.
func (s *Session) DefaultArchiveName() string {
	base := filepath.Base(s.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "session"
	}
	return stem + "_tracks.zip"
}

// Report assembles the split report from the session's current state.
// archivePath may be empty when no archive was written.
func (s *Session) Report(archivePath string) logging.Report {
	return logging.Report{
		SessionID:    s.ID,
		SourcePath:   s.SourcePath,
		SampleRate:   s.Buffer.SampleRate,
		Channels:     s.Buffer.Channels,
		TotalSamples: s.Buffer.TotalSamples(),
		Config:       s.Config,
		Stats:        s.Stats,
		Segments:     s.Store.Segments(),
		ArchivePath:  archivePath,
		Elapsed:      s.Elapsed,
	}
}
