//go:build !dev

package mcplogdlog

import "log/slog"

// NewHandler returns a handler that drops everything; build with -tags dev to
// forward records to mcplogd.
func NewHandler() slog.Handler {
	return slog.DiscardHandler
}
