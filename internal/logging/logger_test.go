package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "support_bot_log.txt")
	l := New(Options{Path: path, MaxSizeMB: 1})

	got, err := l.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReadReturnsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support_bot_log.txt")
	l := New(Options{Path: path, MaxSizeMB: 1})

	l.Info("ingest", "Loaded Text File", map[string]interface{}{"file": "faq.txt"})
	l.Warn("retrieval", "Low similarity", nil)
	l.Info("session", "Query answered", nil)

	entries, err := l.Read("", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Query answered", entries[0].Message)
	assert.Equal(t, "session", entries[0].Module)
	assert.Equal(t, "Loaded Text File", entries[2].Message)
	assert.Equal(t, "faq.txt", entries[2].Details["file"])
	assert.NotEmpty(t, entries[2].Id)

	warns, err := l.Read("WARN", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "retrieval", warns[0].Module)
}

func TestReadPagination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support_bot_log.txt")
	l := New(Options{Path: path, MaxSizeMB: 1})
	for i := 0; i < 5; i++ {
		l.Info("session", "entry", map[string]interface{}{"i": i})
	}

	page, err := l.Read("", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 3, page[0].Details["i"])

	empty, err := l.Read("", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNopHasNoFile(t *testing.T) {
	l := NewNop()
	l.Info("session", "ignored", nil)
	_, err := l.Snapshot()
	assert.Error(t, err)
}
