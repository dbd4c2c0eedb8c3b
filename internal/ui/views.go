package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Color palette
var (
	accentColor  = lipgloss.Color("#D97706") // bandsaw amber
	mutedColor   = lipgloss.Color("#888888")
	errorColor   = lipgloss.Color("#A40000")
	evenColor    = lipgloss.Color("#00AAAA")
	deletedColor = lipgloss.Color("#444444")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	deletedStyle  = lipgloss.NewStyle().Foreground(deletedColor).Strikethrough(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(errorColor)

	peakEvenStyle     = lipgloss.NewStyle().Foreground(evenColor)
	peakOddStyle      = lipgloss.NewStyle().Foreground(accentColor)
	peakDeletedStyle  = lipgloss.NewStyle().Foreground(deletedColor)
	peakSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
)

// Waveform glyphs from quietest to loudest.
var peakBlocks = []rune("▁▂▃▄▅▆▇█")

// renderAnalyzing shows the spinner while ffmpeg and the detector run.
func renderAnalyzing(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bandsaw 🪚"))
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Session Track Splitter"))
	b.WriteString("\n\n")

	b.WriteString("Analyzing: ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(filepath.Base(m.SourcePath)))
	b.WriteString("\n\n")

	spinner := selectedStyle.Render(spinnerFrames[m.spinnerIndex])
	b.WriteString(fmt.Sprintf("%s Listening for gaps... [%s]", spinner, formatElapsed(time.Since(m.StartTime))))
	b.WriteString("\n")

	return b.String()
}

// renderError is the terminal view when analysis failed.
func renderError(m Model) string {
	return errorStyle.Render("Error: ") + m.Err.Error() + "\n"
}

// renderEditor renders the main editing view
func renderEditor(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderPeaks(m))
	b.WriteString("\n\n")

	b.WriteString(renderTrackList(m))
	b.WriteString("\n")

	b.WriteString(renderStatus(m))
	b.WriteString("\n")
	b.WriteString(renderHelp(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := titleStyle.Render("Bandsaw 🪚")

	s := m.Session
	info := fmt.Sprintf("%s | %s | %s | %s | %d tracks",
		filepath.Base(s.SourcePath),
		rateLabel(s.Buffer.SampleRate),
		channelLabel(s.Buffer.Channels),
		audio.Timecode(s.Buffer.TotalSamples(), s.Buffer.SampleRate),
		s.Store.Len())

	return title + "\n" + subtitleStyle.Render(info)
}

// renderPeaks draws the waveform overview, colored by track and
// dimmed where tracks are deleted.
func renderPeaks(m Model) string {
	s := m.Session
	if len(s.Peaks) == 0 {
		return ""
	}

	width := m.Width - 4
	if width < 10 {
		width = 10
	}
	if width > len(s.Peaks) {
		width = len(s.Peaks)
	}

	bars := resamplePeaks(s.Peaks, width)
	segs := s.Store.Segments()
	total := s.Buffer.TotalSamples()

	var b strings.Builder
	b.WriteString("  ")
	for i, p := range bars {
		sample := int(float64(i) / float64(len(bars)) * float64(total))
		idx := segmentIndexAt(segs, sample)

		style := peakEvenStyle
		switch {
		case idx < 0:
		case segs[idx].Deleted:
			style = peakDeletedStyle
		case idx == m.Cursor:
			style = peakSelectedStyle
		case idx%2 == 1:
			style = peakOddStyle
		}
		b.WriteString(style.Render(string(blockForLevel(p))))
	}
	return b.String()
}

// resamplePeaks reduces the peak bars to the terminal width, keeping
// the loudest value in each bucket.
func resamplePeaks(peaks []float64, width int) []float64 {
	if width <= 0 || len(peaks) == 0 {
		return nil
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(peaks) / width
		hi := (i + 1) * len(peaks) / width
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(peaks) {
			hi = len(peaks)
		}
		max := 0.0
		for _, p := range peaks[lo:hi] {
			if p > max {
				max = p
			}
		}
		out[i] = max
	}
	return out
}

func blockForLevel(p float64) rune {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return peakBlocks[int(p*float64(len(peakBlocks)-1)+0.5)]
}

// segmentIndexAt finds which segment's native range covers a sample.
// Display order can differ from native order after reordering, so
// this scans rather than bisects.
func segmentIndexAt(segs []tracks.Segment, sample int) int {
	for i, seg := range segs {
		if sample >= seg.NativeStart && sample < seg.NativeEnd {
			return i
		}
	}
	return -1
}

// renderTrackList renders one row per track plus any mode detail line
// under the selected one.
func renderTrackList(m Model) string {
	segs := m.Session.Store.Segments()
	rate := m.Session.Buffer.SampleRate

	var b strings.Builder
	for i, seg := range segs {
		b.WriteString(renderTrackRow(m, i, seg, rate))
		b.WriteString("\n")
		if i == m.Cursor {
			if detail := renderModeDetail(m, seg, rate); detail != "" {
				b.WriteString(detail)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func renderTrackRow(m Model, index int, seg tracks.Segment, rate int) string {
	marker := "  "
	if index == m.Cursor {
		marker = selectedStyle.Render("▸ ")
	}

	name := seg.Name
	if m.mode == modeRename && index == m.Cursor {
		name = string(m.nameDraft) + "▏"
	}

	var flags []string
	if seg.Cropped() {
		flags = append(flags, "cropped")
	}
	if seg.Deleted {
		flags = append(flags, "deleted")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = "  " + mutedStyle.Render("["+strings.Join(flags, ", ")+"]")
	}

	text := fmt.Sprintf("%2d. %-24s %8s - %-8s (%s)",
		index+1, name,
		audio.Timecode(seg.CropStart, rate),
		audio.Timecode(seg.CropEnd, rate),
		audio.Timecode(seg.CropLen(), rate))

	style := lipgloss.NewStyle()
	switch {
	case seg.Deleted:
		style = deletedStyle
	case index == m.Cursor:
		style = selectedStyle
	}

	return marker + style.Render(text) + suffix
}

// renderModeDetail shows the crop edges or the split point under the
// selected row while those modes are active.
func renderModeDetail(m Model, seg tracks.Segment, rate int) string {
	switch m.mode {
	case modeCrop:
		start := audio.Timecode(seg.CropStart, rate)
		end := audio.Timecode(seg.CropEnd, rate)
		if m.cropEdge == cropEdgeStart {
			start = selectedStyle.Render("▸" + start)
		} else {
			end = selectedStyle.Render("▸" + end)
		}
		return fmt.Sprintf("      crop  start %s  end %s", start, end)
	case modeSplit:
		return fmt.Sprintf("      split at %s", selectedStyle.Render(audio.Timecode(m.splitAt, rate)))
	}
	return ""
}

// renderStatus is the single feedback line above the help footer.
func renderStatus(m Model) string {
	spinner := selectedStyle.Render(spinnerFrames[m.spinnerIndex])

	switch m.Phase {
	case PhaseExporting:
		return fmt.Sprintf(" %s writing archive to %s", spinner, m.exportingTo)
	case PhaseUploading:
		if m.uploadTotal > 0 {
			return fmt.Sprintf(" %s uploading %d/%d  %s", spinner, m.uploadCurrent, m.uploadTotal, m.uploadKey)
		}
		return fmt.Sprintf(" %s starting upload", spinner)
	}

	if m.status == "" {
		return ""
	}
	return " " + mutedStyle.Render(m.status)
}

// renderHelp is the mode-dependent key legend.
func renderHelp(m Model) string {
	var keys string
	switch m.mode {
	case modeRename:
		keys = "enter apply • esc cancel"
	case modeCrop:
		keys = "←/→ edge 1s • shift+←/→ 0.1s • tab other edge • esc done"
	case modeSplit:
		keys = "←/→ move 1s • shift+←/→ 0.1s • enter split • esc cancel"
	default:
		keys = "↑/↓ select • r rename • d delete • c crop • s split • m merge • [/] move • e export"
		if m.Uploader != nil {
			keys += " • u upload"
		}
		keys += " • q quit"
	}
	return " " + mutedStyle.Render(keys)
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func rateLabel(rate int) string {
	return fmt.Sprintf("%.1f kHz", float64(rate)/1000)
}

func channelLabel(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d ch", channels)
	}
}
