package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/document"
	"vellum/internal/journal"
	"vellum/internal/modal"
	"vellum/internal/render"
	"vellum/internal/settings"
	"vellum/internal/tui/components"
	"vellum/internal/tui/search"
)

// Options configures a Model
type Options struct {
	Documents []*document.Document
	Settings  settings.Settings
	// Store persists the modal enabled flag; nil keeps it in memory
	Store settings.Store
	Theme *render.Theme
	// Clipboard overrides the system clipboard writer
	Clipboard func(string) error
}

// Model represents the Bubble Tea model for the TUI
type Model struct {
	host    *documentHost
	engine  *modal.Engine
	journal *journal.Journal
	keys    KeyMap
	theme   render.Theme

	viewport viewport.Model
	painted  int // host version last written to the viewport
	width    int
	height   int
	ready    bool

	cursor     *components.CursorOverlay
	statusline *components.StatuslineComponent
	helpModal  *components.HelpModal

	editor     textarea.Model
	editing    bool
	insertBase string

	searchInput textinput.Model
	search      *search.State

	settings settings.Settings
}

// NewModel creates a new TUI model over the given documents
func NewModel(opts Options) Model {
	j := journal.New()
	host := newDocumentHost(opts.Documents, j)
	cursor := components.NewCursorOverlay()

	engineOpts := []modal.Option{
		modal.WithIndicator(cursor),
		modal.WithDebounce(opts.Settings.Debounce()),
		modal.WithGWindow(opts.Settings.GWindow()),
	}
	if opts.Store != nil {
		engineOpts = append(engineOpts, modal.WithStore(settings.ModalFlag{Store: opts.Store}))
	}
	if opts.Settings.SystemClipboard {
		sink := opts.Clipboard
		if sink == nil {
			sink = clipboard.WriteAll
		}
		engineOpts = append(engineOpts, modal.WithClipboard(sink))
	}
	engine := modal.New(host, engineOpts...)

	theme := render.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Prompt = ""

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search blocks"

	keys := DefaultKeyMap()
	engineKeys := engine.KeyMap()
	full := engineKeys.FullHelp()
	help := components.NewHelpModal(
		components.HelpSection{Title: "Motions", Bindings: full[0]},
		components.HelpSection{Title: "Edits", Bindings: full[1]},
		components.HelpSection{Title: "Insert & more", Bindings: full[2]},
		components.HelpSection{Title: "Viewer", Bindings: keys.bindings()},
	)

	return Model{
		host:        host,
		engine:      engine,
		journal:     j,
		keys:        keys,
		theme:       theme,
		viewport:    viewport.New(80, 20),
		cursor:      cursor,
		statusline:  components.NewStatuslineComponent(80),
		helpModal:   help,
		editor:      ed,
		searchInput: in,
		search:      &search.State{},
		settings:    opts.Settings,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Engine returns the modal engine driving the document
func (m Model) Engine() *modal.Engine {
	return m.engine
}

// Document returns the current document
func (m Model) Document() *document.Document {
	return m.host.doc()
}
