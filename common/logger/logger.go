// Package logger provides leveled logging for the legalrag pipeline,
// backed by zerolog. The package-level Infof/Warnf style keeps call sites
// terse; tests can swap the output or silence it entirely.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string    `json:"level,omitempty" yaml:"level,omitempty"` // debug, info, warn, error
	Pretty bool      `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	Output io.Writer `json:"-" yaml:"-"`
}

var (
	mu  sync.RWMutex
	log = newZerolog(Config{Level: "info"})
)

// Init replaces the package logger. Call once at startup; safe to skip,
// the default logs info and above to stderr.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	log = newZerolog(cfg)
}

// Disable routes all output to io.Discard. Used by tests.
func Disable() {
	Init(Config{Level: "error", Output: io.Discard})
}

func newZerolog(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "legalrag").Logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	current().Debug().Msgf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	current().Info().Msgf(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	current().Warn().Msgf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	current().Error().Msgf(format, args...)
}
