package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vellum/internal/modal"
)

// FooterInfo is what the footer shows besides the mode
type FooterInfo struct {
	Status    modal.Status
	Document  string
	Modified  bool
	DocIndex  int
	DocCount  int
	Edits     int
	Blocks    int
	Clipboard bool
}

// FooterComponent handles the rendering of the status bar footer
type FooterComponent struct {
	info  FooterInfo
	width int
}

// NewFooterComponent creates a new footer component
func NewFooterComponent(info FooterInfo, width int) *FooterComponent {
	return &FooterComponent{
		info:  info,
		width: width,
	}
}

func (f *FooterComponent) pending() string {
	s := f.info.Status
	var sb strings.Builder
	if s.Count > 0 {
		sb.WriteString(fmt.Sprint(s.Count))
	}
	sb.WriteString(s.Operator.String())
	if s.Anchor != nil {
		lo, hi := *s.Anchor, s.Cursor.Block
		if lo > hi {
			lo, hi = hi, lo
		}
		sb.WriteString(fmt.Sprintf("[%d-%d]", lo+1, hi+1))
	}
	return sb.String()
}

// Render renders the complete footer with mode indicator and status bar
func (f *FooterComponent) Render() string {
	// Create mode indicator
	modeIndicator := NewModeIndicatorComponent(f.info.Status.Mode, f.info.Status.Enabled)
	modeIndicatorRendered := modeIndicator.Render()
	modeIndicatorWidth := modeIndicator.Width()

	// Calculate remaining width for main footer content
	remainingWidth := f.width - modeIndicatorWidth

	name := f.info.Document
	if f.info.Modified {
		name += " [+]"
	}
	if f.info.DocCount > 1 {
		name = fmt.Sprintf("%s (%d/%d)", name, f.info.DocIndex+1, f.info.DocCount)
	}

	position := fmt.Sprintf("block %d/%d  word %d",
		f.info.Status.Cursor.Block+1, f.info.Blocks, f.info.Status.Cursor.Word+1)
	if f.info.Blocks == 0 {
		position = "empty"
	}

	register := "reg -"
	if f.info.Status.Register.Text != "" {
		register = "reg " + truncate(f.info.Status.Register.Text, 16)
		if f.info.Status.Register.Linewise {
			register += " (line)"
		}
	}
	if f.info.Clipboard {
		register += " +clip"
	}

	edits := fmt.Sprintf("%d edits", f.info.Edits)

	// Layout: vellum | document | pending | position | register | edits
	sections := []string{"vellum", name}
	pendingIdx := -1
	if p := f.pending(); p != "" {
		pendingIdx = len(sections)
		sections = append(sections, p)
	}
	sections = append(sections, position, register, edits)

	totalContentWidth := 0
	for _, section := range sections {
		totalContentWidth += lipgloss.Width(section)
	}

	// Account for separators (3 spaces between each section) and padding
	separatorCount := len(sections) - 1
	availableWidth := remainingWidth - totalContentWidth - separatorCount*3 - 2

	// Distribute extra space evenly
	extraSpacePerGap := 0
	if separatorCount > 0 && availableWidth > 0 {
		extraSpacePerGap = availableWidth / separatorCount
	}

	partStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Background(lipgloss.Color("236"))
	pendingStyle := partStyle.Foreground(lipgloss.Color("214")).Bold(true)

	separator := partStyle.Render(strings.Repeat(" ", 3+extraSpacePerGap))
	styled := make([]string, len(sections))
	for i, section := range sections {
		if i == pendingIdx {
			styled[i] = pendingStyle.Render(section)
			continue
		}
		styled[i] = partStyle.Render(section)
	}
	composedFooter := strings.Join(styled, separator)

	mainFooter := lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Width(max(remainingWidth, 0)).
		MaxWidth(max(remainingWidth, 0)).
		Padding(0, 1).
		Render(composedFooter)

	// Combine mode indicator and main footer
	return modeIndicatorRendered + mainFooter
}

// truncate shortens s to n runes and flattens newlines
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
