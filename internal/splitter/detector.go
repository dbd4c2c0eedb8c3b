package splitter

// The detector turns the feature series into boundary sample offsets
// through a pipeline of small named stages: normalize energies, mark
// quiet frames, collapse them into runs, keep runs long enough to be
// inter-track gaps, confirm they are spectrally narrow, place a
// boundary at each run midpoint, and merge boundaries that crowd each
// other. Each stage is a plain function so tests can probe it alone.

// Stats records what happened at each detection stage. The report and
// the tuning tips are built from these counts.
type Stats struct {
	// Frames is the length of the analyzed feature series.
	Frames int
	// PeakEnergy is the series maximum used for normalization. Zero
	// means the whole recording was digitally silent.
	PeakEnergy float64
	// QuietFrames is how many frames fell below the energy threshold.
	QuietFrames int
	// Runs is the number of maximal quiet stretches found.
	Runs int
	// ShortRuns were rejected for lasting less than the minimum gap.
	ShortRuns int
	// WidebandRuns were long enough but failed spectral confirmation.
	WidebandRuns int
	// ConfirmedRuns passed both checks and proposed a boundary.
	ConfirmedRuns int
	// Merged is how many proposed boundaries were folded into a
	// stronger neighbor by the spacing rule.
	Merged int
	// Boundaries is the final count handed to the segment builder.
	Boundaries int
}

// quietRun is one maximal stretch of consecutive quiet frames.
// Frame indices are inclusive on both ends.
type quietRun struct {
	first, last   int
	minEnergy     float64 // lowest normalized energy inside the run
	meanBandwidth float64 // Hz, averaged over the run
}

func (r quietRun) frames() int { return r.last - r.first + 1 }

// candidate pairs a proposed boundary offset with the run that
// produced it, so the merge stage can rank overlapping proposals.
type candidate struct {
	sample int
	run    quietRun
}

// Detect finds track boundaries in a feature series. The returned
// offsets are per-channel sample positions, strictly ascending and
// strictly inside the recording. An empty result is a normal outcome:
// the whole file is one track.
func Detect(features []FrameFeature, sampleRate int, cfg Config) []int {
	boundaries, _ := DetectStats(features, sampleRate, cfg)
	return boundaries
}

// DetectStats is Detect plus the per-stage counts for reporting.
func DetectStats(features []FrameFeature, sampleRate int, cfg Config) ([]int, Stats) {
	stats := Stats{Frames: len(features)}
	if len(features) == 0 || sampleRate <= 0 {
		return nil, stats
	}

	norm, peak := normalizeEnergies(features)
	stats.PeakEnergy = peak
	if norm == nil {
		// Digital silence end to end: one track, no gaps to find.
		return nil, stats
	}

	quiet := markQuiet(norm, cfg.EnergyThreshold)
	for _, q := range quiet {
		if q {
			stats.QuietFrames++
		}
	}

	runs := collapseQuietRuns(quiet, norm, features)
	stats.Runs = len(runs)

	var cands []candidate
	for _, r := range runs {
		if runSeconds(r.frames(), cfg.HopSize, sampleRate) < cfg.MinGapDuration {
			stats.ShortRuns++
			continue
		}
		if r.meanBandwidth >= cfg.BandwidthThreshold {
			stats.WidebandRuns++
			continue
		}
		stats.ConfirmedRuns++
		s := boundarySample(r, cfg.HopSize)
		if s <= 0 {
			// A run hugging the very start of the file midpoints to
			// sample zero, which splits nothing.
			continue
		}
		cands = append(cands, candidate{sample: s, run: r})
	}

	minSpacing := int(cfg.MinInterTrackDuration * float64(sampleRate))
	merged := mergeBoundaries(cands, minSpacing)
	stats.Merged = len(cands) - len(merged)
	stats.Boundaries = len(merged)

	boundaries := make([]int, len(merged))
	for i, c := range merged {
		boundaries[i] = c.sample
	}
	return boundaries, stats
}

// normalizeEnergies rescales the energy series so the loudest frame is
// 1.0 and returns the peak it divided by. A peak of zero cannot be
// normalized; the nil return tells the caller to stop with zero
// boundaries instead of dividing by it.
func normalizeEnergies(features []FrameFeature) ([]float64, float64) {
	var peak float64
	for _, f := range features {
		if f.Energy > peak {
			peak = f.Energy
		}
	}
	if peak == 0 {
		return nil, 0
	}
	norm := make([]float64, len(features))
	for i, f := range features {
		norm[i] = f.Energy / peak
	}
	return norm, peak
}

// markQuiet flags frames whose normalized energy falls below the
// threshold.
func markQuiet(norm []float64, threshold float64) []bool {
	quiet := make([]bool, len(norm))
	for i, e := range norm {
		quiet[i] = e < threshold
	}
	return quiet
}

// collapseQuietRuns folds consecutive quiet frames into runs, keeping
// the depth (lowest energy) and mean bandwidth of each run for the
// later stages. A run still open at the end of the series is closed
// there.
func collapseQuietRuns(quiet []bool, norm []float64, features []FrameFeature) []quietRun {
	var runs []quietRun
	open := false
	var cur quietRun
	var bwSum float64

	for i, q := range quiet {
		switch {
		case q && !open:
			open = true
			cur = quietRun{first: i, minEnergy: norm[i]}
			bwSum = features[i].Bandwidth
		case q && open:
			if norm[i] < cur.minEnergy {
				cur.minEnergy = norm[i]
			}
			bwSum += features[i].Bandwidth
		case !q && open:
			cur.last = i - 1
			cur.meanBandwidth = bwSum / float64(cur.frames())
			runs = append(runs, cur)
			open = false
		}
	}
	if open {
		cur.last = len(quiet) - 1
		cur.meanBandwidth = bwSum / float64(cur.frames())
		runs = append(runs, cur)
	}
	return runs
}

// runSeconds is the wall-clock length of a run: frames advance by one
// hop each, so the covered time is frames times the hop duration.
func runSeconds(frames, hopSize, sampleRate int) float64 {
	return float64(frames*hopSize) / float64(sampleRate)
}

// boundarySample converts a run to its midpoint sample offset. With an
// inclusive last index the exclusive end is last+1, matching the
// half-open frame ranges the extractor produces.
func boundarySample(r quietRun, hopSize int) int {
	mid := (r.first + r.last + 1) / 2
	return mid * hopSize
}

// mergeBoundaries folds boundaries that sit strictly closer than
// minSpacing samples to their predecessor into the stronger of the
// two: the longer run wins, ties go to the deeper run, remaining ties
// to the earlier one. Boundaries exactly minSpacing apart both
// survive; the spacing rule is strict and pinned by tests. Replacing
// the incumbent moves the comparison point forward, so a chain of
// crowded gaps resolves to its single best member.
func mergeBoundaries(cands []candidate, minSpacing int) []candidate {
	if len(cands) <= 1 {
		return cands
	}
	kept := make([]candidate, 0, len(cands))
	kept = append(kept, cands[0])
	for _, c := range cands[1:] {
		last := &kept[len(kept)-1]
		if c.sample-last.sample < minSpacing {
			if betterGap(c, *last) {
				*last = c
			}
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// betterGap reports whether a beats b as the surviving boundary of a
// merge: longer run first, then deeper minimum energy. Equal on both
// counts keeps b, the earlier candidate.
func betterGap(a, b candidate) bool {
	if a.run.frames() != b.run.frames() {
		return a.run.frames() > b.run.frames()
	}
	return a.run.minEnergy < b.run.minEnergy
}
