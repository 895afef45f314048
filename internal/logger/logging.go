// Package logger builds the prefixed charm loggers of the builder, server and shell.
// Loggers write to stderr; stdout carries query results and the IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger for one component, tagged with prefix.
func New(prefix string) *log.Logger {
	return NewTo(os.Stderr, prefix)
}

// NewTo creates a charm log writing to w that respects the global log level.
func NewTo(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// ParseLevel maps the debug-level argument ("info", "debug", ...) to a
// log level. Unknown values report false.
func ParseLevel(value string) (log.Level, bool) {
	level, err := log.ParseLevel(value)
	if err != nil {
		return log.WarnLevel, false
	}
	return level, true
}
