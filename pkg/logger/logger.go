
package logger

import (
	"io"
	"log/slog"
	"os"
)

// LevelTrace is below debug; it enables everything.
const LevelTrace = slog.LevelDebug - 4

// Level maps a repeated -v count to a log level.
func Level(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

func New(w io.Writer, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(verbosity)}))
}

// Setup installs a stderr logger as the slog default.
func Setup(verbosity int) *slog.Logger {
	l := New(os.Stderr, verbosity)
	slog.SetDefault(l)
	return l
}
