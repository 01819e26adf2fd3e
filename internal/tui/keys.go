package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the host-level bindings that work regardless of modal state
type KeyMap struct {
	Quit        key.Binding
	Save        key.Binding
	ToggleModal key.Binding
	NextDoc     key.Binding
	PrevDoc     key.Binding
	Help        key.Binding
	ExitInsert  key.Binding
	SearchNext  key.Binding
	SearchPrev  key.Binding
	SearchJump  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save document")),
		ToggleModal: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "toggle modal mode")),
		NextDoc:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next document")),
		PrevDoc:     key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous document")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ExitInsert:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave insert")),
		SearchNext:  key.NewBinding(key.WithKeys("down", "ctrl+n", "tab"), key.WithHelp("↓", "next match")),
		SearchPrev:  key.NewBinding(key.WithKeys("up", "ctrl+p", "shift+tab"), key.WithHelp("↑", "previous match")),
		SearchJump:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump to match")),
	}
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Save, k.ToggleModal, k.NextDoc, k.PrevDoc, k.Help, k.Quit}
}
