// Package logging builds charmbracelet/log loggers and carries them
// through a context.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Default is the stderr logger used when no logger travels in the
// context, such as for errors that escape the command tree.
//
//nolint:gochecknoglobals // process-wide fallback
var Default = sync.OnceValue(func() *log.Logger {
	return NewWithWriter(os.Stderr, "info")
})

// NewWithWriter returns a plain logger on w. Level is one of debug, info,
// warn (or warning) and error; anything else means info.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive returns the prefixed, timestamped stderr logger used by
// compile --watch.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "texhelper",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.InfoLevel,
	})
}

// ParseLevel maps a level name to a log.Level, case-insensitively.
func ParseLevel(level string) log.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		return log.WarnLevel
	}
	parsed, err := log.ParseLevel(level)
	if err != nil || parsed == log.FatalLevel {
		return log.InfoLevel
	}
	return parsed
}
