package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/logger"
	"vellum/internal/tui/components"
)

// chromeHeight is the footer plus the statusline
const chromeHeight = 2

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.engine.Update(msg) {
		return m, nil
	}
	m.statusline.Expire(time.Now())

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.helpModal.IsVisible() {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.helpModal.Hide()
			}
			return m, nil
		}
		if m.editing {
			return m.updateInsert(msg)
		}
		if m.search.Active {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			m.save()
			return m, nil
		case key.Matches(msg, m.keys.ToggleModal):
			m.toggleModal()
			return m, nil
		case key.Matches(msg, m.keys.NextDoc):
			m.switchDocument(m.host.current + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevDoc):
			m.switchDocument(m.host.current - 1)
			return m, nil
		}

		handled, engineCmd := m.engine.HandleKey(msg)
		if handled {
			return m.afterEngine(engineCmd)
		}
		if key.Matches(msg, m.keys.Help) {
			m.helpModal.Show()
			return m, nil
		}
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.editing {
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	bodyHeight := max(height-chromeHeight, 1)
	m.viewport.Width = width
	m.viewport.Height = bodyHeight
	m.editor.SetWidth(width)
	m.editor.SetHeight(bodyHeight)
	m.searchInput.Width = max(width/2, 20)
	m.statusline.SetWidth(width)
	m.host.resize(width)
	m.engine.SetPageSize(bodyHeight / 2)
	m.engine.Refresh()
	m.ready = true
	m.refresh()
}

// afterEngine picks up anything the engine asked of the host while handling
// a key, then repaints
func (m Model) afterEngine(engineCmd tea.Cmd) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{engineCmd}
	if notice := m.engine.Notice(); notice != "" {
		m.statusline.SetMessage(components.NewStatuslineMessage(components.StatuslineWarning, notice))
	}
	if target, ok := m.host.takeInsert(); ok {
		cmds = append(cmds, m.startInsert(target.Offset))
	}
	if m.host.takeSearch() {
		cmds = append(cmds, m.openSearch())
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if msg.Y >= m.viewport.Height {
			return m, nil
		}
		cmd := m.engine.Click(msg.X, msg.Y+m.viewport.YOffset)
		m.refresh()
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh repaints the viewport when the document re-rendered and scrolls
// the cursor indicator into view
func (m *Model) refresh() {
	if m.painted != m.host.version || m.host.view == nil {
		v := m.host.View()
		m.viewport.SetContent(v.String(m.theme))
		m.painted = m.host.version
	}
	r, ok := m.cursor.Rect()
	if !ok {
		return
	}
	top, height := m.viewport.YOffset, m.viewport.Height
	switch {
	case r.Y < top:
		m.viewport.SetYOffset(r.Y)
	case r.Y+min(r.H, height) > top+height:
		m.viewport.SetYOffset(r.Y + min(r.H, height) - height)
	}
}

func (m *Model) save() {
	doc := m.host.doc()
	if err := doc.Save(); err != nil {
		logger.Error("Failed to save %s: %v", doc.Name, err)
		m.statusline.SetMessage(components.NewStatuslineMessage(components.StatuslineError, err.Error()))
		return
	}
	m.statusline.SetMessage(components.NewStatuslineMessage(components.StatuslineInfo, fmt.Sprintf("saved %s", doc.Path)))
}

func (m *Model) toggleModal() {
	enabled := !m.engine.Enabled()
	m.settings.ModalEnabled = enabled
	if err := m.engine.SetEnabled(enabled); err != nil {
		logger.Error("Failed to persist modal flag: %v", err)
		m.statusline.SetMessage(components.NewStatuslineMessage(components.StatuslineError, err.Error()))
	} else {
		state := "off"
		if enabled {
			state = "on"
		}
		m.statusline.SetMessage(components.NewStatuslineMessage(components.StatuslineInfo, "modal mode "+state))
	}
	m.refresh()
}

func (m *Model) switchDocument(i int) {
	if len(m.host.docs) < 2 {
		return
	}
	i = (i + len(m.host.docs)) % len(m.host.docs)
	if !m.host.switchTo(i) {
		return
	}
	m.engine.Reset()
	m.viewport.GotoTop()
	m.refresh()
}
