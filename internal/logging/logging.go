// Package logging builds the logrus loggers used across janus.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a logger writing text lines at or above level to w.
// A nil w writes to stderr.
func New(level string, w io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	if w == nil {
		w = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
