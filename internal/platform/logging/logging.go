package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
	// Color enables ANSI colours on the console handler.
	Color bool
	// Output overrides the console writer; defaults to os.Stderr.
	Output io.Writer
}

// Logger wraps slog with the printf-style and tagged helpers used across the client.
type Logger struct {
	slog *slog.Logger
	file *os.File
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a Logger writing to the console and, when Dir and Filename are set,
// to a JSON log file.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	handlers := fanout{NewTextHandler(out, level, cfg.Color)}

	var file *os.File
	if cfg.Dir != "" && cfg.Filename != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.Dir, cfg.Filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return &Logger{slog: slog.New(handlers), file: file}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{slog: slog.New(NewTextHandler(io.Discard, slog.LevelError+1, false))}
}

// Slog exposes the structured logger for new integrations.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) Debug(format string, args ...any) {
	l.slog.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.slog.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.slog.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.slog.Error(fmt.Sprintf(format, args...))
}

// DebugTag logs "[TAG] message" at debug level.
func (l *Logger) DebugTag(tag, format string, args ...any) {
	l.slog.Debug(tagged(tag, format, args...))
}

// InfoTag logs "[TAG] message" at info level.
func (l *Logger) InfoTag(tag, format string, args ...any) {
	l.slog.Info(tagged(tag, format, args...))
}

// WarnTag logs "[TAG] message" at warn level.
func (l *Logger) WarnTag(tag, format string, args ...any) {
	l.slog.Warn(tagged(tag, format, args...))
}

// ErrorTag logs "[TAG] message" at error level.
func (l *Logger) ErrorTag(tag, format string, args ...any) {
	l.slog.Error(tagged(tag, format, args...))
}

func tagged(tag, format string, args ...any) string {
	return "[" + tag + "] " + fmt.Sprintf(format, args...)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
