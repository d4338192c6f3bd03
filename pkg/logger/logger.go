// Package logger builds the process-wide structured logger.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// New creates a timestamped logger at the named level ("debug", "info",
// "warn", "error") and installs it as the default logger.
func New(level string, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	})
	log.SetDefault(l)
	return l, nil
}
