package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/splitter"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// Report carries everything the post-analysis split report shows. The
// segment list is the full one, deleted tracks included; the report
// marks them instead of hiding them.
type Report struct {
	SessionID    string
	SourcePath   string
	SampleRate   int
	Channels     int
	TotalSamples int
	Config       splitter.Config
	Stats        splitter.Stats
	Segments     []tracks.Segment
	ArchivePath  string // empty when no archive was written
	Elapsed      time.Duration
}

// WriteReport renders the split report to w: file facts, effective
// settings, the detection funnel, the track table, and tuning tips
// when the result looks off. Batch mode prints it after analysis; the
// interactive editor prints it on exit.
func WriteReport(w io.Writer, r Report) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "SPLIT REPORT: %s\n", filepath.Base(r.SourcePath))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	seconds := 0.0
	if r.SampleRate > 0 {
		seconds = float64(r.TotalSamples) / float64(r.SampleRate)
	}
	fmt.Fprintf(w, "Session:     %s\n", r.SessionID)
	fmt.Fprintf(w, "Duration:    %s (%d samples)\n", formatDurationHMS(seconds), r.TotalSamples)
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", r.SampleRate)
	fmt.Fprintf(w, "Channels:    %s\n", channelName(r.Channels))
	if r.Elapsed > 0 {
		fmt.Fprintf(w, "Analyzed in: %s\n", formatDurationHMS(r.Elapsed.Seconds()))
	}
	fmt.Fprintln(w)

	writeSection(w, "SETTINGS")
	fmt.Fprintf(w, "  Frame / Hop:   %d / %d samples\n", r.Config.FrameSize, r.Config.HopSize)
	fmt.Fprintf(w, "  Quiet below:   %.2f of peak energy\n", r.Config.EnergyThreshold)
	fmt.Fprintf(w, "  Gap bandwidth: under %.0f Hz\n", r.Config.BandwidthThreshold)
	fmt.Fprintf(w, "  Min gap:       %.1f s\n", r.Config.MinGapDuration)
	fmt.Fprintf(w, "  Track spacing: %.1f s\n", r.Config.MinInterTrackDuration)
	fmt.Fprintln(w)

	writeSection(w, "DETECTION")
	fmt.Fprintf(w, "  Frames analyzed:    %d\n", r.Stats.Frames)
	fmt.Fprintf(w, "  Quiet frames:       %d\n", r.Stats.QuietFrames)
	fmt.Fprintf(w, "  Quiet runs:         %d\n", r.Stats.Runs)
	fmt.Fprintf(w, "    rejected short:   %d\n", r.Stats.ShortRuns)
	fmt.Fprintf(w, "    rejected noisy:   %d\n", r.Stats.WidebandRuns)
	fmt.Fprintf(w, "  Confirmed gaps:     %d\n", r.Stats.ConfirmedRuns)
	fmt.Fprintf(w, "  Merged boundaries:  %d\n", r.Stats.Merged)
	fmt.Fprintf(w, "  Track boundaries:   %d\n", r.Stats.Boundaries)
	fmt.Fprintln(w)

	writeSection(w, "TRACKS")
	fmt.Fprint(w, indentBlock(trackTable(r.Segments, r.SampleRate), "  "))
	fmt.Fprintln(w)

	if tips := DetectionTips(r.Stats, r.Config); len(tips) > 0 {
		writeSection(w, "TIPS")
		for _, tip := range tips {
			fmt.Fprintf(w, "  * %s\n", wrapText(tip.Message, 62, "    "))
		}
		fmt.Fprintln(w)
	}

	if r.ArchivePath != "" {
		fmt.Fprintf(w, "Archive: %s\n", r.ArchivePath)
	}
}

// trackTable renders the segment list as an aligned table.
func trackTable(segments []tracks.Segment, sampleRate int) string {
	if len(segments) == 0 {
		return "no tracks\n"
	}
	t := &Table{
		Headers: []string{"#", "NAME", "START", "END", "LENGTH", "FLAGS"},
		Aligns:  []Alignment{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
	for i, s := range segments {
		t.AddRow(
			fmt.Sprintf("%d", i+1),
			s.Name,
			audio.Timecode(s.CropStart, sampleRate),
			audio.Timecode(s.CropEnd, sampleRate),
			audio.Timecode(s.CropLen(), sampleRate),
			segmentFlags(s),
		)
	}
	return t.String()
}

// segmentFlags summarizes a segment's edit state for the table.
func segmentFlags(s tracks.Segment) string {
	var flags []string
	if s.Cropped() {
		flags = append(flags, "cropped")
	}
	if s.Deleted {
		flags = append(flags, "deleted")
	}
	return strings.Join(flags, ", ")
}

// writeSection writes a section title.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}

// indentBlock prefixes every non-empty line of a block.
func indentBlock(block, prefix string) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// formatDurationHMS formats seconds as "Xh Ym Zs", "Ym Zs", or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

// channelName names a channel count the way musicians say it.
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
