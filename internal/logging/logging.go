// Package logging configures the process-wide slog logger from the
// command-line verbosity flags.
package logging

import (
	"io"
	"log/slog"
)

// LevelTrace sits below Debug and is enabled by -vv.
const LevelTrace = slog.LevelDebug - 4

// Level maps the -q flag and the number of -v flags to a level.
func Level(quiet bool, verbosity int) (slog.Level, bool) {
	switch {
	case quiet:
		return 0, false
	case verbosity == 0:
		return slog.LevelInfo, true
	case verbosity == 1:
		return slog.LevelDebug, true
	default:
		return LevelTrace, true
	}
}

// New returns a text logger writing to w, or a discarding logger when quiet.
func New(w io.Writer, quiet bool, verbosity int) *slog.Logger {
	level, enabled := Level(quiet, verbosity)
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}))
}
