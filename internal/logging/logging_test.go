package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		quiet     bool
		verbosity int
		want      slog.Level
		enabled   bool
	}{
		{true, 3, 0, false},
		{false, 0, slog.LevelInfo, true},
		{false, 1, slog.LevelDebug, true},
		{false, 2, LevelTrace, true},
		{false, 5, LevelTrace, true},
	}
	for _, tt := range tests {
		level, enabled := Level(tt.quiet, tt.verbosity)
		assert.Equal(t, tt.enabled, enabled)
		if tt.enabled {
			assert.Equal(t, tt.want, level)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, 2)
	logger.Log(context.Background(), LevelTrace, "resolved", "records", 3)
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "records=3")

	buf.Reset()
	New(&buf, true, 2).Error("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	New(&buf, false, 0).Debug("hidden")
	assert.Empty(t, buf.String())
}
