// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured logger shared by study-shelf
// commands. Command output goes to stdout through plain writers; the logger
// writes diagnostics to stderr.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LevelEnv names the environment variable consulted when no level flag is given.
const LevelEnv = "STUDY_SHELF_LOG_LEVEL"

// New returns a logger writing to w at the given level. An empty level
// falls back to $STUDY_SHELF_LOG_LEVEL, then to warn.
func New(w io.Writer, level string) *log.Logger {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "study-shelf",
	})
	if level == "" {
		level = os.Getenv(LevelEnv)
	}
	lg.SetLevel(ParseLevel(level))
	return lg
}

// ParseLevel maps a level name to a log.Level. Unknown names map to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Discard returns a logger that drops everything. Used as the default
// for library types constructed without a logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
