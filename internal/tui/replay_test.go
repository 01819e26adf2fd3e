package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"vellum/internal/document"
	"vellum/internal/settings"
)

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys("dw<esc><ctrl+d><lt>é")
	require.NoError(t, err)
	require.Len(t, keys, 6)
	require.Equal(t, "d", keys[0].String())
	require.Equal(t, tea.KeyEsc, keys[2].Type)
	require.Equal(t, tea.KeyCtrlD, keys[3].Type)
	require.Equal(t, "<", keys[4].String())
	require.Equal(t, "é", keys[5].String())

	_, err = ParseKeys("<nope>")
	require.Error(t, err)
	_, err = ParseKeys("<esc")
	require.Error(t, err)
}

func TestReplay(t *testing.T) {
	doc := document.New("", "# Title\n\nThe *cat* sat on the cat mat")
	m, err := Replay(Options{
		Documents: []*document.Document{doc},
		Settings:  settings.Default(),
	}, 80, 24, "j5wxIA <esc>")
	require.NoError(t, err)
	require.Equal(t, "# Title\n\nA The *cat* sat on the mat", m.Document().Source)

	rebuilt, err := m.Rebuild("# Title\n\nThe *cat* sat on the cat mat")
	require.NoError(t, err)
	require.Equal(t, m.Document().Source, rebuilt)
}
