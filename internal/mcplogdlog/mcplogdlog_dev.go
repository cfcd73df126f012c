//go:build dev

package mcplogdlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

const defaultSocket = "/tmp/mcplogd.sock"
const appName = "dynpath"

type entry struct {
	App       string         `json:"app"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// handler ships every record to the local mcplogd daemon. Records are dropped
// silently when the daemon is not listening.
type handler struct {
	attrs  []slog.Attr
	prefix string
}

// NewHandler returns a slog.Handler that forwards to mcplogd.
func NewHandler() slog.Handler {
	return handler{}
}

func (h handler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h handler) Handle(_ context.Context, record slog.Record) error {
	metadata := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		metadata[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		metadata[h.prefix+attr.Key] = attr.Value.Any()
		return true
	})

	send(entry{
		App:       appName,
		Level:     strings.ToLower(record.Level.String()),
		Message:   record.Message,
		Timestamp: record.Time.UTC().Format(time.RFC3339Nano),
		Metadata:  metadata,
	})
	return nil
}

func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := handler{prefix: h.prefix, attrs: append([]slog.Attr(nil), h.attrs...)}
	for _, attr := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + attr.Key, Value: attr.Value})
	}
	return next
}

func (h handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return handler{attrs: h.attrs, prefix: h.prefix + name + "."}
}

func send(e entry) {
	conn, err := net.Dial("unix", defaultSocket)
	if err != nil {
		return
	}
	defer conn.Close()

	data, _ := json.Marshal(e)
	fmt.Fprintf(conn, "%s\n", data)
}
