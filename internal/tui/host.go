package tui

import (
	"vellum/internal/document"
	"vellum/internal/journal"
	"vellum/internal/logger"
	"vellum/internal/modal"
	"vellum/internal/render"
)

// documentHost owns the open documents and their rendered projections.
// It is the modal engine's Host; requests the engine makes through it are
// parked until the model picks them up after the key is handled.
type documentHost struct {
	docs    []*document.Document
	current int
	width   int
	journal *journal.Journal

	view    *render.View
	version int // bumped on every re-render

	pendingInsert   *modal.InsertTarget
	searchRequested bool
}

func newDocumentHost(docs []*document.Document, j *journal.Journal) *documentHost {
	if len(docs) == 0 {
		docs = []*document.Document{document.New("", "")}
	}
	return &documentHost{docs: docs, width: 80, journal: j}
}

func (h *documentHost) doc() *document.Document {
	return h.docs[h.current]
}

func (h *documentHost) Source() string {
	return h.doc().Source
}

func (h *documentHost) SetSource(text string) {
	h.replace("edit", text)
}

// replace swaps in a new source text, journals the diff and re-renders
func (h *documentHost) replace(event, text string) {
	d := h.doc()
	before := d.Source
	if before == text {
		return
	}
	d.Source = text
	h.journal.Record(d.ID, event, before, text)
	h.rerender()
}

func (h *documentHost) View() *render.View {
	if h.view == nil {
		h.rerender()
	}
	return h.view
}

func (h *documentHost) BeginInsert(target modal.InsertTarget) {
	h.pendingInsert = &target
}

func (h *documentHost) OpenSearch() {
	h.searchRequested = true
}

func (h *documentHost) rerender() {
	h.view = render.Render(h.doc().Source, h.width)
	h.version++
}

func (h *documentHost) resize(width int) {
	if width == h.width && h.view != nil {
		return
	}
	h.width = width
	h.rerender()
}

// switchTo makes document i current. It reports false when i is out of range
// or already current.
func (h *documentHost) switchTo(i int) bool {
	if i < 0 || i >= len(h.docs) || i == h.current {
		return false
	}
	h.current = i
	h.rerender()
	logger.Info("Switched to document %s", h.doc().Name)
	return true
}

// blockTexts returns the visible text of every rendered block
func (h *documentHost) blockTexts() []string {
	v := h.View()
	texts := make([]string, v.Len())
	for i, b := range v.Blocks {
		texts[i] = b.Text()
	}
	return texts
}

// takeInsert returns and clears a parked insert request
func (h *documentHost) takeInsert() (modal.InsertTarget, bool) {
	if h.pendingInsert == nil {
		return modal.InsertTarget{}, false
	}
	t := *h.pendingInsert
	h.pendingInsert = nil
	return t, true
}

func (h *documentHost) takeSearch() bool {
	r := h.searchRequested
	h.searchRequested = false
	return r
}
