// Package logging is bandsaw's reporting surface: the pipeline logger,
// the post-analysis split report, and the detector tuning tips.
package logging

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// NewLogger builds the pipeline logger. The TUI runs with hclog.Off so
// nothing scribbles over the alternate screen; batch mode raises the
// level and points output at stderr or a log file.
func NewLogger(level hclog.Level, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "bandsaw",
		Level:  level,
		Output: out,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "bandsaw",
		Level:  hclog.Off,
		Output: io.Discard,
	})
}
