package splitter

import (
	"os"
	"path/filepath"
	"testing"
)

func writePreset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing preset fixture: %v", err)
	}
	return path
}

func TestLoadPresetPartial(t *testing.T) {
	// A preset only has to name the fields it changes.
	path := writePreset(t, "energy_threshold: 0.1\nmin_gap_duration: 2.5\n")

	cfg, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if cfg.EnergyThreshold != 0.1 {
		t.Errorf("EnergyThreshold = %v, want 0.1", cfg.EnergyThreshold)
	}
	if cfg.MinGapDuration != 2.5 {
		t.Errorf("MinGapDuration = %v, want 2.5", cfg.MinGapDuration)
	}
	// Everything else keeps its default.
	if cfg.FrameSize != DefaultFrameSize {
		t.Errorf("FrameSize = %d, want default %d", cfg.FrameSize, DefaultFrameSize)
	}
	if cfg.BandwidthThreshold != DefaultBandwidthThreshold {
		t.Errorf("BandwidthThreshold = %v, want default %v", cfg.BandwidthThreshold, DefaultBandwidthThreshold)
	}
}

func TestLoadPresetInvalidValues(t *testing.T) {
	path := writePreset(t, "energy_threshold: 3.0\n")
	if _, err := LoadPreset(path); err == nil {
		t.Fatal("LoadPreset accepted an out-of-range threshold")
	}
}

func TestLoadPresetBadYAML(t *testing.T) {
	path := writePreset(t, "frame_size: [not a number\n")
	if _, err := LoadPreset(path); err == nil {
		t.Fatal("LoadPreset accepted malformed YAML")
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	if _, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadPreset succeeded on a missing file")
	}
}

func TestPresetRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.FrameSize = 2048
	want.HopSize = 1024
	want.EnergyThreshold = 0.08
	want.BandwidthThreshold = 750
	want.MinGapDuration = 2.0
	want.MinInterTrackDuration = 8.0

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := SavePreset(path, want); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	got, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}
