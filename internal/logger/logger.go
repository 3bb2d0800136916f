// Package logger holds the process-wide slog instance. Handlers write to
// stdout; level, format and the component attribute come from app config.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pulsedate/backend/internal/config"
)

var (
	mu     sync.RWMutex
	global *slog.Logger
)

// InitFromConfig builds the global logger from app config. Safe to call
// more than once; the last call wins.
func InitFromConfig(c *config.Config) {
	level, format, component := "info", "text", ""
	withSource := false
	if c != nil {
		level = c.Log.Level
		format = c.Log.Format
		component = c.Log.Component
		withSource = c.Log.Source
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: withSource,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	l := slog.New(handler)
	if component != "" {
		l = l.With("component", component)
	}

	mu.Lock()
	global = l
	mu.Unlock()
}

// L returns the global logger, initializing a default one on first use.
func L() *slog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	InitFromConfig(nil)

	mu.RLock()
	defer mu.RUnlock()
	return global
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
