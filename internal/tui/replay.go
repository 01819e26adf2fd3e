package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var namedKeys = map[string]tea.KeyType{
	"esc":       tea.KeyEsc,
	"enter":     tea.KeyEnter,
	"cr":        tea.KeyEnter,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
}

// ParseKeys turns a vim-style key string into key presses. Plain runes are
// typed as-is; special keys are written in angle brackets, such as <esc>,
// <enter> or <ctrl+d>. A literal "<" is written <lt>.
func ParseKeys(s string) ([]tea.KeyMsg, error) {
	var out []tea.KeyMsg
	for len(s) > 0 {
		if s[0] != '<' {
			r := []rune(s)[0]
			out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
			s = s[len(string(r)):]
			continue
		}
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return nil, fmt.Errorf("unterminated key name in %q", s)
		}
		name := strings.ToLower(s[1:end])
		s = s[end+1:]

		if name == "lt" {
			out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'<'}})
			continue
		}
		if t, ok := namedKeys[name]; ok {
			out = append(out, tea.KeyMsg{Type: t})
			continue
		}
		if c, ok := strings.CutPrefix(name, "ctrl+"); ok && len(c) == 1 && c[0] >= 'a' && c[0] <= 'z' {
			out = append(out, tea.KeyMsg{Type: tea.KeyCtrlA + tea.KeyType(c[0]-'a')})
			continue
		}
		return nil, fmt.Errorf("unknown key <%s>", name)
	}
	return out, nil
}

// Replay runs a key sequence through a model sized width by height, without
// a terminal, and returns the resulting model
func Replay(opts Options, width, height int, keys string) (Model, error) {
	msgs, err := ParseKeys(keys)
	if err != nil {
		return Model{}, err
	}
	opts.Settings.DebounceMS = 0
	var model tea.Model = NewModel(opts)
	model, _ = model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	return model.(Model), nil
}

// Rebuild replays the edit journal of the current document over base, the
// text the document held before any key was pressed
func (m Model) Rebuild(base string) (string, error) {
	return m.journal.Rebuild(m.Document().ID, base)
}
