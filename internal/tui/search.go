package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) openSearch() tea.Cmd {
	m.search.Reset()
	m.search.Active = true
	m.searchInput.SetValue("")
	return tea.Batch(m.searchInput.Focus(), textinput.Blink)
}

func (m *Model) closeSearch() {
	m.search.Reset()
	m.searchInput.Blur()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.closeSearch()
		return m, nil
	case key.Matches(msg, m.keys.SearchJump):
		result, ok := m.search.Current()
		m.closeSearch()
		if !ok {
			return m, nil
		}
		cmd := m.engine.JumpTo(result.Block, 0)
		m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.SearchNext):
		m.search.SelectNext()
		return m, nil
	case key.Matches(msg, m.keys.SearchPrev):
		m.search.SelectPrev()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.search.Query {
		m.search.Update(q, m.host.blockTexts())
	}
	return m, cmd
}
