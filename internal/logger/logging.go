// Package logger configures charmbracelet/log for the launcher.
// Everything goes to stderr: stdout carries the IPC protocol and the TUI.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Setup configures the default logger.
// Debug mode logs everything with timestamps; otherwise only warnings and errors are shown.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(debug)
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.WarnLevel)
}

// New creates a prefixed logger at the default logger's level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, log.TextFormatter)
}

// NewWithConfig creates a prefixed logger with explicit options.
func NewWithConfig(w io.Writer, prefix string, level log.Level, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
