// Package log builds the process logger. The TUI logs to a file because the
// screen owns stdout; every other command logs to stderr.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// File, when set, receives the log instead of Output. A ".json" suffix
	// selects the JSON formatter.
	File   string
	Level  string
	Output io.Writer
	// Discard drops everything. Used by the TUI when no file is configured.
	Discard bool
}

// New returns a configured logger and a function that releases its file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	closer := func() error { return nil }

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f.Close
		if strings.EqualFold(filepath.Ext(opts.File), ".json") {
			logger.SetFormatter(&logrus.JSONFormatter{})
		}
	case opts.Discard:
		logger.SetOutput(io.Discard)
	case opts.Output != nil:
		logger.SetOutput(opts.Output)
	default:
		logger.SetOutput(os.Stderr)
	}
	return logger, closer, nil
}

// ParseLevel accepts logrus level names plus "silent". Empty means "warn".
func ParseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return logrus.WarnLevel, nil
	case "silent":
		return logrus.PanicLevel, nil
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Discard returns a logger that writes nothing, for tests and callers that
// were not given one.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
