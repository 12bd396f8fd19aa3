package parser

import (
	"log/slog"
	"time"

	"github.com/aledsdavies/mrecognizer/core/logging"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token and node counts only
	TelemetryTiming                      // Counts + timing per phase
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry        TelemetryMode
	stopOnFirstError bool
	logger           *slog.Logger
}

func defaultConfig() *ParserConfig {
	return &ParserConfig{stopOnFirstError: true, logger: logging.FromEnv()}
}

// WithLogger sets the logger for lexer and parser trace output
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStopOnFirstError ends the attempt at the first lexical or syntactic error (default true)
func WithStopOnFirstError(stop bool) ParserOpt {
	return func(c *ParserConfig) {
		c.stopOnFirstError = stop
	}
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per phase)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// ParseTelemetry holds parser performance metrics
type ParseTelemetry struct {
	LexTime    time.Duration // Time spent lexing
	ParseTime  time.Duration // Time spent parsing
	TotalTime  time.Duration // Total attempt time
	TokenCount int           // Number of tokens, all channels
	NodeCount  int           // Number of concrete nodes built
	ErrorCount int           // Number of errors
}
