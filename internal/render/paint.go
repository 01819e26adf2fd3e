package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vellum/internal/blocks"
)

// Theme holds the lipgloss styles used to paint a view
type Theme struct {
	Text      lipgloss.Style
	Heading   lipgloss.Style
	Heading1  lipgloss.Style
	CodeBlock lipgloss.Style
	CodeSpan  lipgloss.Style
	Quote     lipgloss.Style
	Marker    lipgloss.Style
	Rule      lipgloss.Style
}

// DefaultTheme returns the built-in color scheme
func DefaultTheme() Theme {
	return Theme{
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Heading1:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Underline(true),
		CodeBlock: lipgloss.NewStyle().Foreground(lipgloss.Color("150")).Background(lipgloss.Color("235")),
		CodeSpan:  lipgloss.NewStyle().Foreground(lipgloss.Color("150")),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		Rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (t Theme) styleFor(c gridCell) lipgloss.Style {
	var st lipgloss.Style
	switch {
	case c.kind == blocks.Rule:
		return t.Rule
	case c.decor:
		return t.Marker
	case c.kind == blocks.Code:
		return t.CodeBlock
	case c.kind == blocks.Heading && c.level == 1:
		st = t.Heading1
	case c.kind == blocks.Heading:
		st = t.Heading
	case c.kind == blocks.Quote:
		st = t.Quote
	default:
		st = t.Text
	}
	if c.style&Code != 0 {
		st = t.CodeSpan
	}
	if c.style&Bold != 0 {
		st = st.Bold(true)
	}
	if c.style&Italic != 0 {
		st = st.Italic(true)
	}
	if c.style&Strike != 0 {
		st = st.Strikethrough(true)
	}
	return st
}

func sameLook(a, b gridCell) bool {
	return a.style == b.style && a.kind == b.kind && a.level == b.level && a.decor == b.decor && a.set == b.set
}

// String paints the whole view with theme, one line per row
func (v *View) String(theme Theme) string {
	out := make([]string, len(v.rows))
	for y, row := range v.rows {
		var sb strings.Builder
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && sameLook(row[i], row[j]) {
				text := row[j].text
				if !row[j].set {
					text = " "
				}
				run.WriteString(text)
				j++
			}
			if row[i].set {
				sb.WriteString(theme.styleFor(row[i]).Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			i = j
		}
		out[y] = sb.String()
	}
	return strings.Join(out, "\n")
}

// Plain returns the unstyled text of the view, rows joined by newlines and
// trailing spaces trimmed
func (v *View) Plain() string {
	out := make([]string, len(v.rows))
	for y := range v.rows {
		out[y] = strings.TrimRight(v.plainRow(y, 0, len(v.rows[y])), " ")
	}
	return strings.Join(out, "\n")
}

// PlainRect returns the unstyled text covered by r, one line per row
func (v *View) PlainRect(r Rect) string {
	lines := make([]string, 0, r.H)
	for y := r.Y; y < r.Y+r.H; y++ {
		lines = append(lines, v.plainRow(y, r.X, r.X+r.W))
	}
	return strings.Join(lines, "\n")
}

func (v *View) plainRow(y, from, to int) string {
	var sb strings.Builder
	var row []gridCell
	if y >= 0 && y < len(v.rows) {
		row = v.rows[y]
	}
	for x := from; x < to; x++ {
		if x >= 0 && x < len(row) && row[x].set {
			sb.WriteString(row[x].text)
			continue
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}
