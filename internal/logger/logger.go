package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/soundsense-team/soundsense/internal/env"
)

// Options configures the logger.
type Options struct {
	logToFile bool
	logFile   string
}

// Option mutates Options.
type Option func(*Options)

// WithLogToFile enables writing logs to a rotated file in production.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the log file path.
func WithLogFile(path string) Option {
	return func(o *Options) {
		o.logFile = path
	}
}

// New builds the default logger for the given environment.
// Development logs are colorized to stderr; production logs are JSON,
// optionally duplicated to a size-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	options := &Options{
		logFile: "logs/soundsense.log",
	}
	for _, opt := range opts {
		opt(options)
	}

	if environment == env.Production {
		var w io.Writer = os.Stdout
		if options.logToFile {
			w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   options.logFile,
				MaxSize:    50, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}

		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))
}
