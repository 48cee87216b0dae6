package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	require.NoError(t, h.Load())
	assert.Equal(t, 0, h.Len())

	for _, e := range []HistoryEntry{
		{"head.name", modeEval},
		{"list", modeCtrl},
		{"paths()", modeEval},
		{"  head.name  ", modeEval},
		{"", modeEval},
	} {
		_, err := h.WriteWithMode(e.Line, e.Mode)
		require.NoError(t, err)
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"paths()", modeEval},
		{"head.name", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C:list\nE:paths()\nE:head.name\n", string(data))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}

	_, err = h.GetEntry(3)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
