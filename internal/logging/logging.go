// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init points the standard logrus logger at w with the given level. When
// quiet is set only errors are logged, whatever level was asked for.
// Colors follow the terminal detection of the text formatter.
func Init(w io.Writer, level logrus.Level, quiet bool) *logrus.Entry {
	logger := logrus.StandardLogger()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	if quiet && level > logrus.ErrorLevel {
		level = logrus.ErrorLevel
	}
	logger.SetLevel(level)
	return logrus.NewEntry(logger)
}

// ParseLevel converts "debug", "info", "warn" or "error" (any case) to a
// logrus level.
func ParseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "trace":
		return logrus.TraceLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
