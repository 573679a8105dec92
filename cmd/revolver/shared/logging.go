package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a logger writing to stderr, as text by default or
// as JSON for log collectors.
func SetupLogger(debug, json bool) *log.Logger {
	return NewLogger(os.Stderr, debug, json)
}

// NewLogger is SetupLogger for an arbitrary writer.
func NewLogger(w io.Writer, debug, json bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}
	if json {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339Nano
	}
	return log.NewWithOptions(w, opts)
}
