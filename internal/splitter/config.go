// Package splitter is the boundary-detection core: framewise feature
// extraction over a decoded buffer, and a staged silence-gap detector
// that turns the feature series into track boundary offsets.
package splitter

import "fmt"

// Default analysis parameters. Frame and hop follow the usual
// power-of-two STFT setup with 50% overlap; the thresholds were tuned
// on studio session recordings with natural between-song silences.
const (
	// DefaultFrameSize is the analysis window length in samples.
	DefaultFrameSize = 4096
	// DefaultHopSize is the advance between windows in samples.
	DefaultHopSize = 2048
	// DefaultEnergyThreshold marks a frame quiet when its RMS falls
	// below this fraction of the loudest frame in the recording.
	DefaultEnergyThreshold = 0.05
	// DefaultBandwidthThreshold is the ceiling in Hz a quiet run's
	// mean spectral bandwidth must stay under to count as a real gap.
	// Room-tone hiss is broadband and lands far above this; digital
	// silence and faded tails land near zero.
	DefaultBandwidthThreshold = 1000.0
	// DefaultMinGapDuration is the shortest silence in seconds treated
	// as an inter-track gap. Anything briefer is a musical rest.
	DefaultMinGapDuration = 1.5
	// DefaultMinInterTrackDuration is the minimum spacing in seconds
	// between boundaries; closer pairs collapse into one.
	DefaultMinInterTrackDuration = 5.0
)

// Config carries every tunable the detector exposes. The zero value is
// not usable; start from DefaultConfig and override fields, or load a
// preset file over the defaults.
type Config struct {
	// FrameSize is the analysis window length in samples.
	FrameSize int `yaml:"frame_size"`

	// HopSize is the advance between consecutive windows in samples.
	// Hop below frame size overlaps windows; above it skips samples.
	HopSize int `yaml:"hop_size"`

	// EnergyThreshold is the quiet cutoff on max-normalized energy,
	// in (0, 1].
	EnergyThreshold float64 `yaml:"energy_threshold"`

	// BandwidthThreshold is the spectral confirmation ceiling in Hz.
	BandwidthThreshold float64 `yaml:"bandwidth_threshold"`

	// MinGapDuration is the minimum quiet-run length in seconds for a
	// run to qualify as an inter-track gap.
	MinGapDuration float64 `yaml:"min_gap_duration"`

	// MinInterTrackDuration is the minimum boundary spacing in
	// seconds; boundaries strictly closer than this are merged.
	MinInterTrackDuration float64 `yaml:"min_inter_track_duration"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		FrameSize:             DefaultFrameSize,
		HopSize:               DefaultHopSize,
		EnergyThreshold:       DefaultEnergyThreshold,
		BandwidthThreshold:    DefaultBandwidthThreshold,
		MinGapDuration:        DefaultMinGapDuration,
		MinInterTrackDuration: DefaultMinInterTrackDuration,
	}
}

// Validate rejects structurally unusable parameter combinations.
func (c Config) Validate() error {
	if c.FrameSize < 2 {
		return fmt.Errorf("splitter: frame size %d, need at least 2", c.FrameSize)
	}
	if c.HopSize < 1 {
		return fmt.Errorf("splitter: hop size %d, need at least 1", c.HopSize)
	}
	if c.EnergyThreshold <= 0 || c.EnergyThreshold > 1 {
		return fmt.Errorf("splitter: energy threshold %g outside (0, 1]", c.EnergyThreshold)
	}
	if c.BandwidthThreshold < 0 {
		return fmt.Errorf("splitter: bandwidth threshold %g is negative", c.BandwidthThreshold)
	}
	if c.MinGapDuration <= 0 {
		return fmt.Errorf("splitter: min gap duration %g, need positive seconds", c.MinGapDuration)
	}
	if c.MinInterTrackDuration < 0 {
		return fmt.Errorf("splitter: min inter-track duration %g is negative", c.MinInterTrackDuration)
	}
	return nil
}
