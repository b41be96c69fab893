package utils

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/logfmt"
)

// NewLogger builds a logger writing to output in the given format, "json"
// or logfmt for anything else.
func NewLogger(level log.Level, debug bool, format string, output io.Writer) *log.Logger {
	logger := &log.Logger{}

	if debug {
		logger.Level = log.DebugLevel
	} else {
		logger.Level = level
	}

	switch format {
	case "json":
		logger.Handler = json.New(output)
	default:
		logger.Handler = logfmt.New(output)
	}

	return logger
}
