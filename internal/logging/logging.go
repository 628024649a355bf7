// Package logging provides structured, leveled logging for Sed Studio.
//
// Records fan out to a text handler on an io.Writer and, when a log file is
// configured, a JSON handler on that file. The terminal UI disables the
// writer because the screen owns stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Level is the minimum severity a logger emits.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel parses a level name. Unknown names yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level to output.
	Level Level

	// Output receives text records. Nil means os.Stderr unless
	// DisableOutput is set.
	Output io.Writer

	// DisableOutput suppresses the text handler entirely.
	DisableOutput bool

	// File, if set, receives JSON records. The file is appended to.
	File string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Logger wraps slog.Logger with the resources it owns.
type Logger struct {
	*slog.Logger

	level  *slog.LevelVar
	closer io.Closer
}

// New creates a logger. The returned logger must be closed if cfg.File is set.
func New(cfg Config) (*Logger, error) {
	level := new(slog.LevelVar)
	level.Set(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if !cfg.DisableOutput {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(out, opts))
	}

	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f
	}

	var h slog.Handler = slog.NewTextHandler(io.Discard, nil)
	if len(handlers) > 0 {
		h = slogmulti.Fanout(handlers...)
	}

	return &Logger{
		Logger: slog.New(h),
		level:  level,
		closer: closer,
	}, nil
}

// WithComponent returns a logger that tags records with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
		level:  l.level,
	}
}

// SetLevel changes the minimum level for this logger and all loggers
// derived from it.
func (l *Logger) SetLevel(level Level) {
	if l.level != nil {
		l.level.Set(level)
	}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
