// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info").With("project_id", 7).WithStage("architect")

	l.Info("stage finished", "sections", 5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stage finished", entry["msg"])
	assert.Equal(t, "architect", entry["stage"])
	assert.EqualValues(t, 7, entry["project_id"])
	assert.EqualValues(t, 5, entry["sections"])
}

func TestLoggerLevelFilter(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"DEBUG", true, true},
		{"info", false, true},
		{"ERROR", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level)
			l.Debug("debug line")
			l.Warn("warn line")
			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn line"))
		})
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")
	l, err := Open(path, "INFO")
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Close())
	assert.FileExists(t, path)
}

func TestNopLoggerClose(t *testing.T) {
	assert.NoError(t, NopLogger().Close())
}
