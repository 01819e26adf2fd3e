package modal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the modal engine key bindings
type KeyMap struct {
	Delete, Change, Yank key.Binding

	WordForward, WordBackward key.Binding
	Down, Up                  key.Binding
	HalfPageDown, HalfPageUp  key.Binding
	PageDown, PageUp          key.Binding
	GoStart, GoEnd            key.Binding
	LineStart, LineEnd        key.Binding

	Visual key.Binding

	InsertAt, InsertAfter         key.Binding
	InsertLineStart, InsertLineEnd key.Binding
	OpenBelow, OpenAbove          key.Binding
	CommitLine                    key.Binding

	DeleteWord                        key.Binding
	DeleteToEnd, ChangeToEnd, YankLine key.Binding
	PasteAfter, PasteBefore           key.Binding

	Undo, Redo key.Binding
	Search     key.Binding
	Cancel     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Change: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "change")),
		Yank:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank")),

		WordForward:  key.NewBinding(key.WithKeys("w", "W", "right", "l"), key.WithHelp("w", "next word")),
		WordBackward: key.NewBinding(key.WithKeys("b", "B", "left", "h"), key.WithHelp("b", "previous word")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next block")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "previous block")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		PageDown:     key.NewBinding(key.WithKeys("ctrl+f", "pgdown"), key.WithHelp("ctrl+f", "page down")),
		PageUp:       key.NewBinding(key.WithKeys("ctrl+b", "pgup"), key.WithHelp("ctrl+b", "page up")),
		GoStart:      key.NewBinding(key.WithKeys("g"), key.WithHelp("gg", "first block")),
		GoEnd:        key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last block")),
		LineStart:    key.NewBinding(key.WithKeys("0", "^", "home"), key.WithHelp("0", "first word")),
		LineEnd:      key.NewBinding(key.WithKeys("$", "end"), key.WithHelp("$", "last word")),

		Visual: key.NewBinding(key.WithKeys("v", "V"), key.WithHelp("v", "select blocks")),

		InsertAt:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert before word")),
		InsertAfter:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "insert after word")),
		InsertLineStart: key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "insert at block start")),
		InsertLineEnd:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "insert at block end")),
		OpenBelow:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open block below")),
		OpenAbove:       key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "open block above")),
		CommitLine:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue block")),

		DeleteWord:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete word")),
		DeleteToEnd: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete to block end")),
		ChangeToEnd: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "change to block end")),
		YankLine:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "yank block")),
		PasteAfter:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste after")),
		PasteBefore: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "paste before")),

		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo (unsupported)")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo (unsupported)")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns the bindings shown in compact help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.WordForward, k.Down, k.Delete, k.Change, k.Yank, k.Visual, k.InsertAt, k.Search}
}

// FullHelp returns every binding grouped for the help modal
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.WordForward, k.WordBackward, k.Down, k.Up, k.HalfPageDown, k.HalfPageUp, k.PageDown, k.PageUp, k.GoStart, k.GoEnd, k.LineStart, k.LineEnd},
		{k.Delete, k.Change, k.Yank, k.DeleteWord, k.DeleteToEnd, k.ChangeToEnd, k.YankLine, k.PasteAfter, k.PasteBefore, k.Visual},
		{k.InsertAt, k.InsertAfter, k.InsertLineStart, k.InsertLineEnd, k.OpenBelow, k.OpenAbove, k.CommitLine, k.Search, k.Undo, k.Redo, k.Cancel},
	}
}
