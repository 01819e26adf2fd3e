package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileGivesDefaults(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	require.NoError(t, err)

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Default(), got)
	require.Equal(t, 50*time.Millisecond, got.Debounce())
	require.Equal(t, 300*time.Millisecond, got.GWindow())
}

func TestFileStore_RoundTripAndPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	want := Settings{ModalEnabled: false, SystemClipboard: true, DebounceMS: 10, GWindowMS: 500}
	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte(`{"system_clipboard": true}`), 0600))
	got, err = store.Load()
	require.NoError(t, err)
	require.True(t, got.ModalEnabled)
	require.True(t, got.SystemClipboard)
	require.Equal(t, 300, got.GWindowMS)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))
	store, err := NewFileStore(path)
	require.NoError(t, err)

	got, err := store.Load()
	require.Error(t, err)
	require.Equal(t, Default(), got)
}

func TestModalFlag_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(Settings{ModalEnabled: true, DebounceMS: 7, GWindowMS: 200}))

	require.NoError(t, ModalFlag{Store: store}.SaveEnabled(false))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	enabled, err := ModalFlag{Store: reopened}.LoadEnabled()
	require.NoError(t, err)
	require.False(t, enabled)

	got, err := reopened.Load()
	require.NoError(t, err)
	require.Equal(t, 7, got.DebounceMS)
}

func TestModalFlag_SaveRepairsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))
	store, err := NewFileStore(path)
	require.NoError(t, err)

	enabled, err := ModalFlag{Store: store}.LoadEnabled()
	require.Error(t, err)
	require.True(t, enabled)

	require.NoError(t, ModalFlag{Store: store}.SaveEnabled(false))

	got, err := store.Load()
	require.NoError(t, err)
	want := Default()
	want.ModalEnabled = false
	require.Equal(t, want, got)
}

func TestApply_RejectsBadValues(t *testing.T) {
	var s Settings
	require.Error(t, apply(&s, "debounce_ms", "soon"))
	require.Error(t, apply(&s, "modal_enabled", "maybe"))
	require.NoError(t, apply(&s, "unknown", "x"))
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Default(), got)

	want := Settings{ModalEnabled: false, SystemClipboard: true, DebounceMS: 0, GWindowMS: 250}
	require.NoError(t, store.Save(want))
	require.NoError(t, ModalFlag{Store: store}.SaveEnabled(true))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err = reopened.Load()
	require.NoError(t, err)
	want.ModalEnabled = true
	require.Equal(t, want, got)
}
