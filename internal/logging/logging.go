// Package logging wraps a process-wide zerolog logger.
//
// Call Init once from main; until then a JSON logger at info level writes to
// stderr. Request handlers should log through Ctx so entries carry the
// request id set by middleware.RequestLogger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string
	Format string // json | console
	Output io.Writer
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	Init(Config{})
}

func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).Level(level).With().Timestamp().Logger()

	mu.Lock()
	log = l
	mu.Unlock()
}

func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }

// With returns a child of the global logger with component set.
func With(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

type ctxKey struct{}

// WithContext stores l in ctx for Ctx to pick up.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Ctx returns the request logger stored in ctx, or the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return &l
		}
	}
	l := Logger()
	return &l
}
