// Package logging sets up the process logger. The TUI owns stdout, so logs
// go to a file under the XDG state directory when debugging and are
// discarded otherwise. Startup diagnostics are written to stderr before the
// TUI takes the terminal.
package logging

import (
	"fmt"
	"io"
	"os"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
)

const logRelPath = "chatdock/chatdock.log"

// New returns a logger and a function that closes its output. With debug
// off the logger discards everything below error level.
func New(debug bool) (*log.Logger, func() error, error) {
	if !debug {
		logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
		return logger, func() error { return nil }, nil
	}

	path, err := Path()
	if err != nil {
		return nil, nil, err
	}
	// #nosec G304 - path is derived from XDG_STATE_HOME
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewWriter(f, log.DebugLevel), f.Close, nil
}

// NewWriter returns a timestamped logger writing to w.
func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "chatdock",
	})
}

// NewStartup returns the logger used while the config is loaded: warnings
// and errors only, untimestamped, so they read as plain diagnostics.
func NewStartup(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  log.WarnLevel,
		Prefix: "chatdock",
	})
}

// Path returns the debug log location, creating its directory.
func Path() (string, error) {
	path, err := xdg.StateFile(logRelPath)
	if err != nil {
		return "", fmt.Errorf("failed to get log path: %w", err)
	}
	return path, nil
}

// Install makes logger the package-level default so that log.Warn and
// friends in other packages use it.
func Install(logger *log.Logger) {
	log.SetDefault(logger)
}
