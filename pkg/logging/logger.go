// Package logging configures structured logging with zerolog and defines the
// field names shared by all PoiskKino components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Field names used across components.
const (
	FieldComponent      = "component"
	FieldOp             = "op"
	FieldTitle          = "title"
	FieldYear           = "year"
	FieldID             = "id"
	FieldParentID       = "parent_id"
	FieldSeason         = "season"
	FieldEpisode        = "episode"
	FieldStatus         = "status"
	FieldOutcome        = "outcome"
	FieldMessage        = "message"
	FieldCacheHit       = "cache_hit"
	FieldDuration       = "duration"
	FieldQuotaUsed      = "quota_used"
	FieldQuotaLimit     = "quota_limit"
	FieldQuotaRemaining = "quota_remaining"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel validates a configured level name.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// parseLevel converts LogLevel to zerolog.Level, defaulting to info.
func parseLevel(level LogLevel) zerolog.Level {
	parsed, err := ParseLevel(string(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	switch parsed {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a child of the global logger tagged with component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str(FieldComponent, component).Logger()
}

// Log Level Guidelines:
//
// Debug: cache hits, successful lookups, confirmed not-found, quota usage.
//
// Info: cancelled lookups, server startup and shutdown.
//
// Warn: rate limiting (429/403), transport failures, timeouts, decode
// failures, a daily quota running low, quota tracking errors.
//
// Error: recovered panics, quota exhausted, failures to start the server.
//
// API keys are never logged. Lookups log their parameters instead:
// op plus title/year, id, or parent_id/season.
