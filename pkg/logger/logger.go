// Package logger provides a singleton structured logger backed by zerolog.
//
// Initialise once at startup with Init, then retrieve anywhere with Get or
// Component.
//
//	TRACE (-1) → DEBUG (0) → INFO (1) → WARN (2) → ERROR (3)
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty enables coloured console output for local development.
	// Production emits one JSON object per line.
	Pretty bool
	// Service is attached to every entry as "service".
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.RWMutex
	instance *zerolog.Logger
)

// Init builds the process logger. Only the first call has any effect; later
// calls return the logger already built.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if lvl <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	instance = &l
	return l
}

// Get returns the process logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Component returns the process logger tagged with a component name, the
// form injected into services and clients.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset drops the process logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
