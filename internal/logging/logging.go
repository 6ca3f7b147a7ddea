// Package logging builds the zerolog logger shared by the CLI, TUI and web surfaces.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Verbose lowers the level to debug;
// otherwise only warnings and errors are written.
func New(w io.Writer, verbose bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Discard returns a logger that drops everything. Used by the TUI, which owns the terminal.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}
