package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	// Level is DEBUG, INFO, WARN or ERROR (case-insensitive). Defaults to INFO.
	Level string
	// File, if set, sends logs to a size-rotated file instead of stdout.
	File string
	// MaxSizeMB is the rotation threshold for File. Defaults to 10.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Defaults to 3.
	MaxBackups int
}

// Setup configures the global slog default with a JSON handler.
// ERROR-level logs automatically include a stack trace.
// The returned closer flushes and closes the log file; it is a no-op for stdout.
func Setup(opts Options) io.Closer {
	out, closer := writer(opts)
	slog.SetDefault(New(out, opts.Level))
	return closer
}

// New builds the JSON logger used by Setup on an arbitrary writer.
func New(w io.Writer, level string) *slog.Logger {
	json := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	})
	return slog.New(&stackHandler{Handler: json})
}

func writer(opts Options) (io.Writer, io.Closer) {
	if opts.File == "" {
		return os.Stdout, nopCloser{}
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := opts.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize, // MB
		MaxBackups: maxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}
	return lj, lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at Error level and exits with code 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

// stackHandler wraps a slog.Handler and appends a stack trace for ERROR+.
type stackHandler struct {
	slog.Handler
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stacktrace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *stackHandler) WithGroup(name string) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithGroup(name)}
}
