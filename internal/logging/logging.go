// Package logging provides the logger used across kback.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Logger is the logging surface every component depends on.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type Options struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json", "logfmt"
}

// New builds a charmbracelet logger writing to w.
// Text output on a non-terminal falls back to logfmt.
func New(w io.Writer, opts Options) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "kback"})
	Apply(l, w, opts)
	return l
}

// Apply reconfigures l, which writes to w, once the config file is known.
func Apply(l *log.Logger, w io.Writer, opts Options) {
	l.SetLevel(parseLevel(opts.Level))
	l.SetFormatter(formatter(opts.Format, isTerminal(w)))
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func formatter(format string, tty bool) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}
	if !tty {
		return log.LogfmtFormatter
	}
	return log.TextFormatter
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
