// Package ui provides the Bubbletea terminal user interface for
// bandsaw: an interactive editor over the detected tracks with export
// and upload wired to keys.
package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/export"
	"github.com/tapeworks/bandsaw/internal/session"
	"github.com/tapeworks/bandsaw/internal/tracks"
	"github.com/tapeworks/bandsaw/internal/upload"
)

// Phase is the UI's lifecycle state.
type Phase int

const (
	PhaseAnalyzing Phase = iota
	PhaseEditing
	PhaseExporting
	PhaseUploading
	PhaseError
)

// editMode selects how keys apply to the selected track.
type editMode int

const (
	modeBrowse editMode = iota
	modeRename
	modeCrop
	modeSplit
)

const (
	cropEdgeStart = 0
	cropEdgeEnd   = 1
)

// Model is the Bubbletea model for the track editor.
type Model struct {
	Phase   Phase
	Session *session.Session
	Err     error

	// SourcePath is shown while analysis runs, before a Session exists.
	SourcePath string
	// ArchivePath overrides the session-derived archive name when set.
	ArchivePath string
	// Uploader is nil unless an S3 bucket was configured.
	Uploader *upload.Uploader

	// Cursor indexes the full segment list, deleted tracks included.
	Cursor int
	mode   editMode
	status string

	nameDraft   []rune
	cropEdge    int
	splitAt     int
	exportingTo string

	// Results surfaced to main for the final report.
	ExportedPath  string
	UploadedCount int

	uploadCurrent int
	uploadTotal   int
	uploadKey     string

	// Channel for receiving progress updates from background work
	ProgressChan chan tea.Msg

	StartTime    time.Time
	spinnerIndex int

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates the editor model. The session arrives later via
// AnalysisDoneMsg; until then the model shows the analyzing view.
func NewModel(sourcePath, archivePath string, uploader *upload.Uploader) Model {
	return Model{
		Phase:        PhaseAnalyzing,
		SourcePath:   sourcePath,
		ArchivePath:  archivePath,
		Uploader:     uploader,
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 16),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForActivity(m.ProgressChan))
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForActivity relays the next background message into the program.
// Each delivery must re-arm it.
func waitForActivity(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if m.Phase == PhaseError {
			return m, nil
		}
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		return m, tickCmd()

	case AnalysisDoneMsg:
		m.Session = msg.Session
		m.Phase = PhaseEditing
		m.status = fmt.Sprintf("%d tracks detected", msg.Session.Store.Len())

	case AnalysisFailedMsg:
		m.Err = msg.Err
		m.Phase = PhaseError
		return m, tea.Quit

	case ExportDoneMsg:
		m.Phase = PhaseEditing
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.ExportedPath = msg.Path
			m.status = "archive written to " + msg.Path
		}

	case UploadProgressMsg:
		m.uploadCurrent = msg.Current
		m.uploadTotal = msg.Total
		m.uploadKey = msg.Key
		return m, waitForActivity(m.ProgressChan)

	case UploadDoneMsg:
		m.Phase = PhaseEditing
		if msg.Err != nil {
			m.status = "upload failed: " + msg.Err.Error()
		} else {
			m.UploadedCount = msg.Count
			m.status = fmt.Sprintf("uploaded %d tracks", msg.Count)
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	switch m.Phase {
	case PhaseAnalyzing:
		return renderAnalyzing(m)
	case PhaseError:
		return renderError(m)
	default:
		return renderEditor(m)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even mid-export.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.Phase {
	case PhaseAnalyzing:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case PhaseExporting, PhaseUploading:
		// Edits are refused while background work reads the store.
		return m, nil
	case PhaseError:
		return m, tea.Quit
	}

	switch m.mode {
	case modeRename:
		return m.handleRenameKey(msg)
	case modeCrop:
		return m.handleCropKey(msg)
	case modeSplit:
		return m.handleSplitKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	segs := m.Session.Store.Segments()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor < len(segs)-1 {
			m.Cursor++
		}

	case "r":
		if seg, ok := m.selected(); ok {
			m.mode = modeRename
			m.nameDraft = []rune(seg.Name)
			m.status = ""
		}

	case "d":
		if seg, ok := m.selected(); ok {
			if seg.Deleted {
				m.status = statusFor(m.Session.Store.Undelete(seg.ID), seg.Name+" restored")
			} else {
				m.status = statusFor(m.Session.Store.Delete(seg.ID), seg.Name+" deleted")
			}
		}

	case "[":
		if seg, ok := m.selected(); ok && m.Cursor > 0 {
			if err := m.Session.Store.Reorder(seg.ID, m.Cursor-1); err != nil {
				m.status = err.Error()
			} else {
				m.Cursor--
			}
		}

	case "]":
		if seg, ok := m.selected(); ok && m.Cursor < len(segs)-1 {
			if err := m.Session.Store.Reorder(seg.ID, m.Cursor+1); err != nil {
				m.status = err.Error()
			} else {
				m.Cursor++
			}
		}

	case "c":
		if _, ok := m.selected(); ok {
			m.mode = modeCrop
			m.cropEdge = cropEdgeStart
			m.status = ""
		}

	case "s":
		if seg, ok := m.selected(); ok {
			m.mode = modeSplit
			m.splitAt = seg.CropStart + seg.CropLen()/2
			m.status = ""
		}

	case "m":
		m = m.mergeWithNext()

	case "e":
		path := m.ArchivePath
		if path == "" {
			path = m.Session.DefaultArchiveName()
		}
		m.Phase = PhaseExporting
		m.exportingTo = path
		m.status = ""
		return m, exportCmd(m.Session.Buffer, m.Session.Store.View(), path)

	case "u":
		if m.Uploader == nil {
			m.status = "no S3 bucket configured; start with --s3-bucket"
			return m, nil
		}
		m.Phase = PhaseUploading
		m.uploadCurrent, m.uploadTotal, m.uploadKey = 0, 0, ""
		m.status = ""
		return m, uploadCmd(m.Uploader, m.Session.Buffer, m.Session.Store.View(), m.ProgressChan)
	}

	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if seg, ok := m.selected(); ok {
			m.status = statusFor(m.Session.Store.Rename(seg.ID, string(m.nameDraft)),
				"renamed to "+string(m.nameDraft))
		}
		m.mode = modeBrowse

	case tea.KeyEsc:
		m.mode = modeBrowse

	case tea.KeyBackspace:
		if len(m.nameDraft) > 0 {
			m.nameDraft = m.nameDraft[:len(m.nameDraft)-1]
		}

	case tea.KeySpace:
		m.nameDraft = append(m.nameDraft, ' ')

	case tea.KeyRunes:
		m.nameDraft = append(m.nameDraft, msg.Runes...)
	}

	return m, nil
}

func (m Model) handleCropKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	seg, ok := m.selected()
	if !ok {
		m.mode = modeBrowse
		return m, nil
	}
	coarse := m.Session.Buffer.SampleRate
	fine := coarse / 10

	switch msg.String() {
	case "tab":
		m.cropEdge = 1 - m.cropEdge
	case "left":
		m = m.nudgeCrop(seg, -coarse)
	case "right":
		m = m.nudgeCrop(seg, coarse)
	case "shift+left":
		m = m.nudgeCrop(seg, -fine)
	case "shift+right":
		m = m.nudgeCrop(seg, fine)
	case "enter", "esc":
		m.mode = modeBrowse
		m.status = ""
	}

	return m, nil
}

// nudgeCrop moves the active crop edge and applies it immediately.
// The store rejects moves outside the native range; the old crop
// stays and the status line says why.
func (m Model) nudgeCrop(seg tracks.Segment, delta int) Model {
	start, end := seg.CropStart, seg.CropEnd
	if m.cropEdge == cropEdgeStart {
		start += delta
	} else {
		end += delta
	}
	if err := m.Session.Store.Crop(seg.ID, start, end); err != nil {
		m.status = err.Error()
	} else {
		m.status = ""
	}
	return m
}

func (m Model) handleSplitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	seg, ok := m.selected()
	if !ok {
		m.mode = modeBrowse
		return m, nil
	}
	coarse := m.Session.Buffer.SampleRate
	fine := coarse / 10

	switch msg.String() {
	case "left":
		m.splitAt = clamp(m.splitAt-coarse, seg.CropStart+1, seg.CropEnd-1)
	case "right":
		m.splitAt = clamp(m.splitAt+coarse, seg.CropStart+1, seg.CropEnd-1)
	case "shift+left":
		m.splitAt = clamp(m.splitAt-fine, seg.CropStart+1, seg.CropEnd-1)
	case "shift+right":
		m.splitAt = clamp(m.splitAt+fine, seg.CropStart+1, seg.CropEnd-1)
	case "enter":
		left, _, err := m.Session.Store.Split(seg.ID, m.splitAt)
		m.status = statusFor(err, "split "+left.Name)
		m.mode = modeBrowse
	case "esc":
		m.mode = modeBrowse
	}

	return m, nil
}

// mergeWithNext folds the selected track into the one after it in
// display order. The store enforces native adjacency.
func (m Model) mergeWithNext() Model {
	segs := m.Session.Store.Segments()
	if m.Cursor < 0 || m.Cursor >= len(segs)-1 {
		m.status = "no following track to merge with"
		return m
	}
	merged, err := m.Session.Store.Merge(segs[m.Cursor].ID, segs[m.Cursor+1].ID)
	m.status = statusFor(err, "merged into "+merged.Name)
	return m
}

// selected returns the segment under the cursor.
func (m Model) selected() (tracks.Segment, bool) {
	segs := m.Session.Store.Segments()
	if m.Cursor < 0 || m.Cursor >= len(segs) {
		return tracks.Segment{}, false
	}
	return segs[m.Cursor], true
}

func statusFor(err error, ok string) string {
	if err != nil {
		return err.Error()
	}
	return ok
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// exportCmd writes the archive off the UI goroutine. The view snapshot
// is taken before the phase flips, so the store cannot change under
// the writer.
func exportCmd(buf *audio.SampleBuffer, view []tracks.Segment, path string) tea.Cmd {
	return func() tea.Msg {
		return ExportDoneMsg{Path: path, Err: export.WriteArchiveFile(path, buf, view)}
	}
}

// uploadCmd encodes and puts each track, streaming progress through
// the model's channel.
func uploadCmd(up *upload.Uploader, buf *audio.SampleBuffer, view []tracks.Segment, ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		err := up.UploadTracks(context.Background(), buf, view, time.Now(),
			func(current, total int, key string) {
				ch <- UploadProgressMsg{Current: current, Total: total, Key: key}
			})
		return UploadDoneMsg{Count: len(view), Err: err}
	}
}
