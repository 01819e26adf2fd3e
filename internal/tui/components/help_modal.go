package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpSection is one titled group of key bindings
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpModal represents a help modal showing available key bindings
type HelpModal struct {
	visible  bool
	sections []HelpSection
}

// NewHelpModal creates a new help modal listing sections
func NewHelpModal(sections ...HelpSection) *HelpModal {
	return &HelpModal{sections: sections}
}

// Show makes the help modal visible
func (h *HelpModal) Show() {
	h.visible = true
}

// Hide makes the help modal invisible
func (h *HelpModal) Hide() {
	h.visible = false
}

// IsVisible returns whether the modal is visible
func (h *HelpModal) IsVisible() bool {
	return h.visible
}

// View renders the help modal
func (h *HelpModal) View() string {
	if !h.visible {
		return ""
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Background(lipgloss.Color("235"))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		MarginBottom(1)

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	columns := make([]string, 0, len(h.sections))
	for _, section := range h.sections {
		var col strings.Builder
		col.WriteString(keyStyle.Render(section.Title + ":"))
		col.WriteString("\n")
		for _, b := range section.Bindings {
			if !b.Enabled() {
				continue
			}
			help := b.Help()
			col.WriteString(commandStyle.Render(help.Key) + " - " + descStyle.Render(help.Desc))
			col.WriteString("\n")
		}
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(col.String()))
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("Vellum Help"))
	content.WriteString("\n\n")
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	content.WriteString("\n")
	content.WriteString(descStyle.Render("Press Esc to close this help"))

	return modalStyle.Render(content.String())
}
