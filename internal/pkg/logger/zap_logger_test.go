package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)

	l.Info("ENGINE", "Session planned", map[string]interface{}{"session_id": "s1"})
	l.Warn("ENGINE", "Resume insight unavailable", nil)
	l.Info("AGENT", "Question generated", nil)
	l.Debug("AGENT", "dropped below info level", nil)
	require.NoError(t, l.Sync())

	all, err := l.GetLogs("", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Question generated", all[0].Message, "newest first")
	assert.Equal(t, "AGENT", all[0].Module)
	assert.Equal(t, "s1", all[2].Details["session_id"])
	assert.NotEmpty(t, all[2].Id)

	warns, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "Resume insight unavailable", warns[0].Message)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Resume insight unavailable", page[0].Message)

	past, err := l.GetLogs("", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestGetLogs_SkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	content := "not json\n" + `{"timestamp":"2026-01-01T00:00:00Z","level":"INFO","message":"ok","module":"HTTP"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := NewIsolatedLogger(path).GetLogs("", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Message)
}

func TestGetLogs_NoFile(t *testing.T) {
	entries, err := NewIsolatedLogger(filepath.Join(t.TempDir(), "missing.log")).GetLogs("", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = NewNopLogger().GetLogs("", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
