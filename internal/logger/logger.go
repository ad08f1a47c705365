package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *slog.Logger

var levels = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARN":    slog.LevelWarn,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// Initialize installs the package logger. Console records go to stderr so
// that command output on stdout stays parseable; the file sink rotates
// through lumberjack.
func Initialize(config Config) error {
	opts := &slog.HandlerOptions{Level: parseLogLevel(config.Level)}

	var sinks []slog.Handler
	if config.ConsoleEnabled {
		sinks = append(sinks, newHandler(os.Stderr, config.ConsoleFormat, opts))
	}
	if config.FileEnabled {
		if config.FilePath == "" {
			return errors.New("log file enabled but no file path configured")
		}
		sinks = append(sinks, newHandler(&lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.FileMaxSizeMB,
			MaxBackups: config.FileMaxBackups,
			MaxAge:     config.FileMaxAgeDays,
		}, config.FileFormat, opts))
	}

	switch len(sinks) {
	case 0:
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	case 1:
		logger = slog.New(sinks[0])
	default:
		logger = slog.New(newMultiHandler(sinks...))
	}
	return nil
}

// Discard silences all logging. The TUI owns the terminal while it runs.
func Discard() {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Logger returns the installed logger, or the slog default before Initialize
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLogLevel maps a config level name to slog; unknown names mean INFO
func parseLogLevel(level string) slog.Level {
	if l, ok := levels[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

func Info(msg string, args ...any) { Logger().Info(msg, args...) }

func Warning(msg string, args ...any) { Logger().Warn(msg, args...) }

// Warningf logs a printf-style warning without structured fields
func Warningf(format string, args ...any) { Warning(fmt.Sprintf(format, args...)) }

func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// multiHandler fans each record out to every sink enabled for its level
type multiHandler []slog.Handler

func newMultiHandler(handlers ...slog.Handler) multiHandler {
	return multiHandler(handlers)
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m multiHandler) each(f func(slog.Handler) slog.Handler) multiHandler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = f(h)
	}
	return out
}
