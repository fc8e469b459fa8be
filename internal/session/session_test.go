package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsLoggedOut(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestSetPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := Load(path)
	require.NoError(t, err)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })
	require.NoError(t, s.Set("a1", "r1", json.RawMessage(`{"email":"admin@example.com"}`)))
	assert.Equal(t, []Event{EventLogin}, events)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a1", again.Token())
	assert.Equal(t, "r1", again.RefreshToken())
	assert.JSONEq(t, `{"email":"admin@example.com"}`, string(again.User()))
}

func TestExpireRemovesFileAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a1", "", nil))

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })
	require.NoError(t, s.Expire())

	assert.False(t, s.Authenticated())
	assert.Equal(t, []Event{EventExpired}, events)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Clear())
	assert.Equal(t, []Event{EventExpired, EventLogout}, events)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestMemoryOnly(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.NoError(t, s.Set("a1", "", nil))
	assert.True(t, s.Authenticated())
	require.NoError(t, s.Clear())
	assert.False(t, s.Authenticated())
}
