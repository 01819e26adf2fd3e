package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/blocks"
)

// caretPosition converts a byte offset of source into a row and a rune column
func caretPosition(source string, offset int) (int, int) {
	offset = max(0, min(offset, len(source)))
	before := source[:offset]
	row := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return row, utf8.RuneCountInString(before[lineStart:])
}

// startInsert hands the whole source to the textarea with the caret at the
// given byte offset
func (m *Model) startInsert(offset int) tea.Cmd {
	source := m.host.Source()
	m.insertBase = source
	m.editor.SetValue(source)

	row, col := caretPosition(source, offset)
	for m.editor.Line() > row {
		m.editor.CursorUp()
	}
	m.editor.SetCursor(col)

	m.editing = true
	return tea.Batch(m.editor.Focus(), textarea.Blink)
}

func (m Model) updateInsert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ExitInsert) {
		return m.finishInsert()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// finishInsert writes the edited text back when it changed and returns the
// engine to NORMAL on the block holding the caret
func (m Model) finishInsert() (tea.Model, tea.Cmd) {
	value := m.editor.Value()
	row := m.editor.Line()
	if value != m.insertBase {
		m.host.replace("insert", value)
	}
	block := blocks.IndexOfLine(blocks.Project(value), row)

	m.editor.Blur()
	m.editing = false
	m.insertBase = ""
	cmd := m.engine.ExitInsert(block)
	m.refresh()
	return m, cmd
}
