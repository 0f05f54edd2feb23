package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide logger. It defaults to a text handler on stdout
// so packages can log before Init runs (tests, CLI subcommands).
var Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Options controls how Init builds the handler.
type Options struct {
	Debug  bool
	Format string // "text" or "json"
	Output io.Writer
}

// Init builds the global logger and installs it as the slog default.
func Init(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	return Logger
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
