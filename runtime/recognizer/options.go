package recognizer

import (
	"log/slog"
	"os"

	"github.com/aledsdavies/mrecognizer/core/logging"
	"github.com/aledsdavies/mrecognizer/runtime/parser"
)

// Option configures a recognition session.
type Option func(*config)

type config struct {
	logger           *slog.Logger
	stopOnFirstError bool
	parallelism      int
	maxAttempts      int // 0 means bounded only by marker growth
	telemetry        bool
	readFile         func(string) ([]byte, error)
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:           logging.FromEnv(),
		stopOnFirstError: true,
		parallelism:      1,
		readFile:         os.ReadFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) parserOptions() []parser.ParserOpt {
	opts := []parser.ParserOpt{
		parser.WithLogger(c.logger),
		parser.WithStopOnFirstError(c.stopOnFirstError),
	}
	if c.telemetry {
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}

// WithLogger sets the logger used for attempt tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStopOnFirstError ends each attempt at its first error (default true).
func WithStopOnFirstError(stop bool) Option {
	return func(c *config) {
		c.stopOnFirstError = stop
	}
}

// WithParallelism recognizes up to n files at once. Diagnostics and
// notifications keep input order.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.parallelism = n
		}
	}
}

// WithMaxAttempts caps the command retry loop per file.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxAttempts = n
		}
	}
}

// WithTelemetry records lexer and parser timings for the last attempt of
// every file.
func WithTelemetry() Option {
	return func(c *config) {
		c.telemetry = true
	}
}

// WithReadFile replaces os.ReadFile for RecognizeFile and RecognizeFiles.
func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(c *config) {
		if read != nil {
			c.readFile = read
		}
	}
}
