package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"vellum/internal/tui/components"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Render help modal if visible (overlay on top)
	if m.helpModal.IsVisible() {
		return m.helpModal.View()
	}

	var body string
	if m.editing {
		body = m.editor.View()
	} else {
		body = m.cursor.Composite(m.viewport.View(), m.host.View(), m.viewport.YOffset, m.viewport.Height)
	}
	body = lipgloss.NewStyle().Height(m.viewport.Height).MaxHeight(m.viewport.Height).Render(body)

	if m.search.Active {
		body = overlay.Composite(m.searchPanel(), body, overlay.Center, overlay.Top, 0, 1)
	}

	doc := m.host.doc()
	footer := components.NewFooterComponent(components.FooterInfo{
		Status:    m.engine.Status(),
		Document:  doc.Name,
		Modified:  doc.Modified(),
		DocIndex:  m.host.current,
		DocCount:  len(m.host.docs),
		Edits:     m.journal.Count(doc.ID),
		Blocks:    m.host.View().Len(),
		Clipboard: m.settings.SystemClipboard,
	}, m.width)

	return body + "\n" + footer.Render() + "\n" + m.statusline.Render()
}

// searchPanel renders the search input with its ranked matches
func (m Model) searchPanel() string {
	width := max(m.searchInput.Width+4, 24)

	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	normal := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var content strings.Builder
	content.WriteString(m.searchInput.View())

	const maxResults = 8
	switch {
	case m.search.Query == "":
	case len(m.search.Results) == 0:
		content.WriteString("\n" + dim.Render("no matches"))
	default:
		for i, r := range m.search.Results {
			if i == maxResults {
				content.WriteString("\n" + dim.Render(fmt.Sprintf("… %d more", len(m.search.Results)-maxResults)))
				break
			}
			line := fmt.Sprintf("%3d  %s", r.Block+1, r.Text)
			line = lipgloss.NewStyle().MaxWidth(width - 4).Render(strings.ReplaceAll(line, "\n", " "))
			style := normal
			if i == m.search.Selected {
				style = selected
			}
			content.WriteString("\n" + style.Render(line))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(width).
		Render(content.String())
}
