package components

import (
	"github.com/charmbracelet/lipgloss"

	"vellum/internal/modal"
)

// ModeIndicatorComponent handles the rendering of the modal mode indicator
type ModeIndicatorComponent struct {
	mode    modal.Mode
	enabled bool
}

// NewModeIndicatorComponent creates a new mode indicator component
func NewModeIndicatorComponent(mode modal.Mode, enabled bool) *ModeIndicatorComponent {
	return &ModeIndicatorComponent{
		mode:    mode,
		enabled: enabled,
	}
}

func (m *ModeIndicatorComponent) text() string {
	if !m.enabled {
		return " VIEW "
	}
	return " " + m.mode.String() + " "
}

// Render renders the mode indicator with colored background
func (m *ModeIndicatorComponent) Render() string {
	var modeColor string

	switch {
	case !m.enabled:
		modeColor = "240" // Gray when modal mode is off
	case m.mode == modal.Insert:
		modeColor = "2" // Green background for insert mode
	case m.mode == modal.Visual:
		modeColor = "5" // Magenta background for visual mode
	case m.mode == modal.OperatorPending:
		modeColor = "3" // Yellow while an operator waits for its motion
	default:
		modeColor = "4" // Blue background for normal mode
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")). // Black text
		Background(lipgloss.Color(modeColor)).
		Render(m.text())
}

// Width returns the width of the mode indicator
func (m *ModeIndicatorComponent) Width() int {
	return lipgloss.Width(m.text())
}
