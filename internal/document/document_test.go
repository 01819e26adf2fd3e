package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody"), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "notes.md", doc.Name)
	require.Equal(t, "# Title\n\nbody", doc.Source)
	require.Equal(t, uuid.Version(7), doc.ID.Version())
	require.False(t, doc.Modified())

	doc.Source = "# Title\n\nedited"
	require.True(t, doc.Modified())
	require.NoError(t, doc.Save())
	require.False(t, doc.Modified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# Title\n\nedited", string(data))
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestLoadMissingFileOpensEmpty(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "new.md"))
	require.NoError(t, err)
	require.Empty(t, doc.Source)
	require.False(t, doc.Modified())
}

func TestUnsavedDocument(t *testing.T) {
	a := New("", "text")
	b := New("", "text")
	require.Equal(t, "untitled", a.Name)
	require.NotEqual(t, a.ID, b.ID)
	require.True(t, a.Modified())
	require.Error(t, a.Save())
}
