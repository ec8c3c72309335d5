// ABOUTME: Structured logger setup for parkspot
// ABOUTME: Builds charm loggers that write to stderr so stdout stays free for output and MCP

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = "info"

// New returns a logger writing to w at the given level
// ("debug", "info", "warn", "error"; anything else means info).
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Prefix:          "parkspot",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// Setup builds a stderr logger and installs it as the package default.
func Setup(level string) *log.Logger {
	logger := New(os.Stderr, level)
	log.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDefault returns logger, or the package default when logger is nil.
func OrDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
