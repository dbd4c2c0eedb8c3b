package ui

import (
	"time"

	"github.com/tapeworks/bandsaw/internal/session"
)

// AnalysisDoneMsg carries the finished session into the editor. Sent
// by main's analysis goroutine via Program.Send.
type AnalysisDoneMsg struct {
	Session *session.Session
}

// AnalysisFailedMsg reports a decode or detection failure.
type AnalysisFailedMsg struct {
	Err error
}

// ExportDoneMsg reports the outcome of writing the track archive.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// UploadProgressMsg is sent before each track is encoded and put.
type UploadProgressMsg struct {
	Current int
	Total   int
	Key     string
}

// UploadDoneMsg reports the outcome of the S3 upload.
type UploadDoneMsg struct {
	Count int
	Err   error
}

// tickMsg drives the spinner and elapsed-time repaint.
type tickMsg time.Time
