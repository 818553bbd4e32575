// Package logging provides the structured logger shared by botree binaries.
//
// Debug output is enabled by setting BOTREE_DEBUG:
//
//	BOTREE_DEBUG=1 botree-cli tree --expand 2
//
// When enabled, records are written to stderr as text at debug level.
// When disabled (default), the logger discards everything.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// EnvVar is the environment variable that switches debug logging on
const EnvVar = "BOTREE_DEBUG"

// Enabled reports whether debug logging was requested
func Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvVar))) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// New returns the process logger, writing to stderr when debug logging is
// enabled and discarding otherwise.
func New() *slog.Logger {
	if !Enabled() {
		return Discard()
	}
	return NewWriter(os.Stderr, slog.LevelDebug)
}

// NewWriter returns a text logger writing to w at the given level
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Timing logs how long an operation took since start
func Timing(l *slog.Logger, op string, start time.Time) {
	l.Debug("timing", "op", op, "elapsed", time.Since(start))
}
