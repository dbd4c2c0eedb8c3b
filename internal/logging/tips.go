package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tapeworks/bandsaw/internal/splitter"
)

// Tip is one piece of actionable tuning advice derived from the
// detection stats, phrased in terms of the CLI flags the user can
// actually turn.
type Tip struct {
	Priority int    // higher = more important (1-10)
	Message  string // one or two sentences
	RuleID   string // identifier for testing and logging
}

// MaxTips caps how many tips a report shows.
const MaxTips = 4

// manyTracksFloor is the boundary count past which a session recording
// probably got over-segmented. A band session holds a dozen-odd songs;
// dozens of boundaries usually mean musical rests are being taken for
// gaps.
const manyTracksFloor = 24

// DetectionTips inspects the detection funnel and suggests flag
// adjustments when the result looks off. A clean multi-track result
// returns no tips.
func DetectionTips(stats splitter.Stats, cfg splitter.Config) []Tip {
	var tips []Tip
	fired := make(map[string]bool)

	rules := []func(splitter.Stats, splitter.Config) *Tip{
		tipRecordingSilent,
		tipNoQuietFrames,
		tipGapsTooShort,
		tipGapsWideband,
		tipHeavyMerging,
		tipSingleTrack,
		tipManyTracks,
	}

	for _, rule := range rules {
		if tip := rule(stats, cfg); tip != nil {
			tips = append(tips, *tip)
			fired[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, fired)

	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}

// applyExclusions drops tips made redundant by a more specific one. A
// silent recording explains everything else; the generic single-track
// tip steps aside whenever a specific cause already fired.
func applyExclusions(tips []Tip, fired map[string]bool) []Tip {
	var result []Tip
	for _, tip := range tips {
		switch tip.RuleID {
		case "recording_silent":
			// never excluded
		default:
			if fired["recording_silent"] {
				continue
			}
		}
		if tip.RuleID == "single_track" &&
			(fired["no_quiet_frames"] || fired["gaps_too_short"] || fired["gaps_wideband"]) {
			continue
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps at word boundaries to fit maxWidth columns;
// continuation lines get the indent prefix.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	current := ""

	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n"+indent)
}

// tipRecordingSilent fires on a digitally silent recording. Nothing
// else is worth saying when this one fires.
func tipRecordingSilent(stats splitter.Stats, _ splitter.Config) *Tip {
	if stats.Frames == 0 || stats.PeakEnergy > 0 {
		return nil
	}
	return &Tip{
		Priority: 10,
		RuleID:   "recording_silent",
		Message:  "The recording is digitally silent from start to finish. Check that the right input was exported from your recorder before splitting.",
	}
}

// tipNoQuietFrames fires when nothing in the recording falls below the
// quiet threshold, which reads as continuous playing or a noisy room.
func tipNoQuietFrames(stats splitter.Stats, cfg splitter.Config) *Tip {
	if stats.Frames == 0 || stats.PeakEnergy == 0 || stats.QuietFrames > 0 {
		return nil
	}
	return &Tip{
		Priority: 9,
		RuleID:   "no_quiet_frames",
		Message: fmt.Sprintf("No frame ever dropped below %.0f%% of the loudest one, so no gaps could be found. If the room stays noisy between songs, raise --energy-threshold above %.2f.",
			cfg.EnergyThreshold*100, cfg.EnergyThreshold),
	}
}

// tipGapsTooShort fires when quiet runs exist but every candidate was
// rejected, at least one for being too brief.
func tipGapsTooShort(stats splitter.Stats, cfg splitter.Config) *Tip {
	if stats.ConfirmedRuns > 0 || stats.ShortRuns == 0 {
		return nil
	}
	return &Tip{
		Priority: 8,
		RuleID:   "gaps_too_short",
		Message: fmt.Sprintf("%d quiet stretch(es) were shorter than the %.1f s minimum gap. If your between-song pauses are brief, lower --min-gap.",
			stats.ShortRuns, cfg.MinGapDuration),
	}
}

// tipGapsWideband fires when quiet runs exist but every candidate was
// rejected, at least one for carrying broadband noise.
func tipGapsWideband(stats splitter.Stats, cfg splitter.Config) *Tip {
	if stats.ConfirmedRuns > 0 || stats.WidebandRuns == 0 {
		return nil
	}
	return &Tip{
		Priority: 8,
		RuleID:   "gaps_wideband",
		Message: fmt.Sprintf("%d quiet stretch(es) were rejected as room noise rather than silence (mean bandwidth over %.0f Hz). If the room tone is steady hiss, raise --bandwidth-threshold.",
			stats.WidebandRuns, cfg.BandwidthThreshold),
	}
}

// tipHeavyMerging fires when the spacing rule swallowed at least as
// many boundaries as it kept.
func tipHeavyMerging(stats splitter.Stats, cfg splitter.Config) *Tip {
	if stats.Merged == 0 || stats.Merged < stats.Boundaries {
		return nil
	}
	return &Tip{
		Priority: 6,
		RuleID:   "heavy_merging",
		Message: fmt.Sprintf("%d boundary candidate(s) sat closer together than the %.1f s track spacing and were folded into their neighbors. If short tracks are expected, lower --min-track-gap.",
			stats.Merged, cfg.MinInterTrackDuration),
	}
}

// tipSingleTrack is the generic no-boundaries fallback, shown only
// when no specific cause fired.
func tipSingleTrack(stats splitter.Stats, _ splitter.Config) *Tip {
	if stats.Frames == 0 || stats.PeakEnergy == 0 || stats.Boundaries > 0 {
		return nil
	}
	return &Tip{
		Priority: 5,
		RuleID:   "single_track",
		Message:  "No track boundaries were found; the whole recording exports as one track. That is a valid result for a continuous set.",
	}
}

// tipManyTracks fires on suspicious over-segmentation.
func tipManyTracks(stats splitter.Stats, cfg splitter.Config) *Tip {
	if stats.Boundaries < manyTracksFloor {
		return nil
	}
	return &Tip{
		Priority: 4,
		RuleID:   "many_tracks",
		Message: fmt.Sprintf("Detection produced %d tracks, which is a lot for one session. If musical rests are being taken for gaps, raise --min-gap above %.1f or tighten --energy-threshold.",
			stats.Boundaries+1, cfg.MinGapDuration),
	}
}
