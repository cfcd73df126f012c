package hostlog

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/dynpath/tshost"
)

func TestNew_WritesOneLinePerRecord(t *testing.T) {
	var lines []string
	logger := New(tshost.LoggerFunc(func(message string) {
		lines = append(lines, message)
	}), slog.LevelInfo)

	logger.Info("plugin started", "roots", 2)
	logger.Debug("hidden")
	logger.With("project", "/w/tsconfig.json").Warn("no documents")

	require.Len(t, lines, 2)
	assert.Equal(t, `level=INFO msg="plugin started" roots=2`, lines[0])
	assert.Equal(t, `level=WARN msg="no documents" project=/w/tsconfig.json`, lines[1])
}

func TestNew_NilSink(t *testing.T) {
	logger := New(nil, slog.LevelDebug)

	assert.NotPanics(t, func() {
		logger.Debug("dropped")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}
