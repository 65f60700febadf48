package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaform/internal/core"
)

func TestOpenNonexistentFileYieldsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, s.All())
	assert.False(t, Exists(path))
}

func TestOpenMalformedFileYieldsEmptyDocumentNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Empty(t, s.All())
}

func TestPutGetRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	table := core.Table{ResourceID: "users_table", Name: "users"}
	s.Put("users_table", table)

	got, ok := s.Get("users_table")
	require.True(t, ok)
	assert.Equal(t, "users", got.Name)

	s.Remove("users_table")
	_, ok = s.Get("users_table")
	assert.False(t, ok)
}

func TestCommitPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	s, err := Open(path)
	require.NoError(t, err)

	s.Put("users_table", core.Table{ResourceID: "users_table", Name: "users"})
	require.NoError(t, s.Commit())
	require.NoError(t, s.Close())

	assert.True(t, Exists(path))

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("users_table")
	require.True(t, ok)
	assert.Equal(t, "users", got.Name)
}

func TestCommitStampsLastUpdated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "last_updated")
}

func TestOpenSecondTimeFailsWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	first, err := Open(path)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestCommitSurvivesPriorFailureInTheSameRun(t *testing.T) {
	// §4.2's contract: a per-resource failure elsewhere must not prevent
	// already-recorded progress from being committed.
	path := filepath.Join(t.TempDir(), "aqua.state.json")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	s.Put("a_table", core.Table{ResourceID: "a_table", Name: "a"})
	// simulate a failure on a second resource: nothing recorded for it.
	require.NoError(t, s.Commit())

	got, ok := s.Get("a_table")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}
