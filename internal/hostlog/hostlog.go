// Package hostlog routes the plugin's structured logs into the host's logger.
package hostlog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/LegacyCodeHQ/dynpath/internal/mcplogdlog"
	"github.com/LegacyCodeHQ/dynpath/tshost"
)

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
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

// New returns a logger writing one text line per record to sink. Timestamps
// are left to the host.
func New(sink tshost.Logger, level slog.Leveler) *slog.Logger {
	text := slog.NewTextHandler(sinkWriter{sink: sink}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(fanout{text, mcplogdlog.NewHandler()})
}

type sinkWriter struct {
	sink tshost.Logger
}

func (w sinkWriter) Write(p []byte) (int, error) {
	if w.sink != nil {
		w.sink.Info(strings.TrimRight(string(p), "\n"))
	}
	return len(p), nil
}

// fanout hands each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
