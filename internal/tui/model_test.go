package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"vellum/internal/document"
	"vellum/internal/modal"
	"vellum/internal/settings"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// typeKeys sends every rune of s as its own key press
func typeKeys(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, keyMsg(string(r)))
	}
	return m
}

func newModel(t *testing.T, opts Options, sources ...string) Model {
	t.Helper()
	if opts.Documents == nil {
		for i, src := range sources {
			opts.Documents = append(opts.Documents, document.New(filepath.Join(t.TempDir(), "doc"+string(rune('a'+i))+".md"), src))
		}
	}
	if opts.Settings == (settings.Settings{}) {
		opts.Settings = settings.Default()
	}
	opts.Settings.DebounceMS = 0
	m := NewModel(opts)
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func TestDeleteWordReachesDocumentAndJournal(t *testing.T) {
	m := newModel(t, Options{}, "one two three")

	m = send(t, m, keyMsg("x"))
	require.Equal(t, "two three", m.Document().Source)
	require.Equal(t, 1, m.journal.Count(m.Document().ID))
	require.Equal(t, "one", m.Engine().Register().Text)
	require.Contains(t, m.View(), "1 edits")
}

func TestInsertRoundTrip(t *testing.T) {
	m := newModel(t, Options{}, "# Title\n\none two three")

	m = send(t, m, keyMsg("j"), keyMsg("w"), keyMsg("i"))
	require.True(t, m.editing)
	require.Equal(t, modal.Insert, m.Engine().Mode())
	require.Equal(t, "# Title\n\none two three", m.editor.Value())

	m = typeKeys(t, m, "big ")
	m = send(t, m, keyMsg("esc"))
	require.False(t, m.editing)
	require.Equal(t, modal.Normal, m.Engine().Mode())
	require.Equal(t, "# Title\n\none big two three", m.Document().Source)
	require.Equal(t, 1, m.Engine().Cursor().Block)
}

func TestInsertWithoutChangesWritesNothing(t *testing.T) {
	m := newModel(t, Options{}, "alpha beta")
	m = send(t, m, keyMsg("A"), keyMsg("esc"))
	require.Zero(t, m.journal.Count(m.Document().ID))
	require.Equal(t, modal.Normal, m.Engine().Mode())
}

func TestSwitchDocumentResetsEngine(t *testing.T) {
	m := newModel(t, Options{}, "first doc here", "second doc")
	m = send(t, m, keyMsg("w"), keyMsg("y"), keyMsg("y"))
	require.Equal(t, modal.Cursor{Block: 0, Word: 1}, m.Engine().Cursor())

	m = send(t, m, keyMsg("ctrl+n"))
	require.Equal(t, "second doc", m.Document().Source)
	require.Equal(t, modal.Cursor{}, m.Engine().Cursor())
	require.Equal(t, "first doc here", m.Engine().Register().Text)

	m = send(t, m, keyMsg("ctrl+n"))
	require.Equal(t, "first doc here", m.Document().Source)
}

func TestToggleModalPersists(t *testing.T) {
	store, err := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	m := newModel(t, Options{Store: store}, "text")

	m = send(t, m, keyMsg("ctrl+e"))
	require.False(t, m.Engine().Enabled())
	saved, err := store.Load()
	require.NoError(t, err)
	require.False(t, saved.ModalEnabled)

	// With modal mode off the engine leaves the document alone
	m = send(t, m, keyMsg("x"))
	require.Equal(t, "text", m.Document().Source)
	require.Contains(t, m.View(), "VIEW")
}

func TestSearchJumpsToBlock(t *testing.T) {
	m := newModel(t, Options{}, "# One\n\nalpha\n\nthe three bears")

	m = send(t, m, keyMsg("/"))
	require.True(t, m.search.Active)
	m = typeKeys(t, m, "bears")
	require.NotEmpty(t, m.search.Results)
	require.Equal(t, 2, m.search.Results[0].Block)

	m = send(t, m, keyMsg("enter"))
	require.False(t, m.search.Active)
	require.Equal(t, 2, m.Engine().Cursor().Block)
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("keep drop"), 0644))
	doc, err := document.Load(path)
	require.NoError(t, err)

	m := newModel(t, Options{Documents: []*document.Document{doc}})
	m = send(t, m, keyMsg("w"), keyMsg("x"), keyMsg("ctrl+s"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "keep", string(data))
	require.False(t, doc.Modified())
}

func TestClickMovesCursor(t *testing.T) {
	m := newModel(t, Options{}, "one two three")
	m = send(t, m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, modal.Cursor{Block: 0, Word: 1}, m.Engine().Cursor())
}

func TestHelpModal(t *testing.T) {
	m := newModel(t, Options{}, "text")
	m = send(t, m, keyMsg("?"))
	require.True(t, m.helpModal.IsVisible())
	require.Contains(t, m.View(), "Vellum Help")
	m = send(t, m, keyMsg("esc"))
	require.False(t, m.helpModal.IsVisible())
}

func TestClipboardMirror(t *testing.T) {
	var copied []string
	opts := Options{
		Settings:  settings.Settings{ModalEnabled: true, SystemClipboard: true, GWindowMS: 300},
		Clipboard: func(s string) error { copied = append(copied, s); return nil },
	}
	m := newModel(t, opts, "alpha beta")
	m = send(t, m, keyMsg("y"), keyMsg("y"))
	require.Equal(t, []string{"alpha beta"}, copied)
}

func TestCaretPosition(t *testing.T) {
	src := "ab\nçd\nef"
	row, col := caretPosition(src, 0)
	require.Equal(t, [2]int{0, 0}, [2]int{row, col})
	row, col = caretPosition(src, len("ab\nç"))
	require.Equal(t, [2]int{1, 1}, [2]int{row, col})
	row, col = caretPosition(src, 100)
	require.Equal(t, [2]int{2, 2}, [2]int{row, col})
}
