package modal

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"vellum/internal/render"
)

type fakeHost struct {
	source   string
	width    int
	view     *render.View
	inserts  []InsertTarget
	searches int
	writes   int
}

func newHost(src string) *fakeHost {
	h := &fakeHost{width: 80}
	h.source = src
	h.view = render.Render(src, h.width)
	return h
}

func (h *fakeHost) Source() string { return h.source }

func (h *fakeHost) SetSource(text string) {
	h.source = text
	h.view = render.Render(text, h.width)
	h.writes++
}

func (h *fakeHost) View() *render.View { return h.view }

func (h *fakeHost) BeginInsert(t InsertTarget) { h.inserts = append(h.inserts, t) }

func (h *fakeHost) OpenSearch() { h.searches++ }

type recordingIndicator struct {
	rect    render.Rect
	visible bool
}

func (r *recordingIndicator) Place(rect render.Rect) { r.rect, r.visible = rect, true }
func (r *recordingIndicator) Hide()                  { r.visible = false }

type memStore struct {
	enabled bool
	saved   int
}

func (m *memStore) LoadEnabled() (bool, error) { return m.enabled, nil }

func (m *memStore) SaveEnabled(enabled bool) error {
	m.enabled = enabled
	m.saved++
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key; multi-char strings like "dd" are split into runes
// unless they name a special key
func press(e *Engine, seq ...string) {
	for _, s := range seq {
		if len(s) > 1 && !strings.Contains(s, "+") && s != "esc" && s != "enter" {
			for _, r := range s {
				e.HandleKey(keyMsg(string(r)))
			}
			continue
		}
		e.HandleKey(keyMsg(s))
	}
}

// wordTexts returns just the text of each word
func wordTexts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func newEngine(src string, opts ...Option) (*Engine, *fakeHost) {
	h := newHost(src)
	opts = append([]Option{WithDebounce(0)}, opts...)
	return New(h, opts...), h
}

func TestDeleteWord_SecondOccurrenceLeavesMarkedOne(t *testing.T) {
	e, h := newEngine("The *cat* sat on the cat mat")
	require.Equal(t,
		[]string{"The", "cat", "sat", "on", "the", "cat", "mat"},
		wordTexts(Words(h.View().Block(0))))

	e.JumpTo(0, 5)
	press(e, "x")
	require.Equal(t, "The *cat* sat on the mat", h.Source())
	require.Equal(t, Register{Text: "cat"}, e.Register())

	e.JumpTo(0, 1)
	press(e, "x")
	require.Equal(t, "The sat on the mat", h.Source())
}

func TestVisualDelete_RemovesRangeAndKeepsCursor(t *testing.T) {
	e, h := newEngine("p0\n\np1\n\np2\n\np3\n\np4\n\np5\n\np6\n\np7")
	e.JumpTo(2, 0)
	press(e, "v", "jjj")
	require.Equal(t, Visual, e.Mode())
	press(e, "d")

	require.Equal(t, "p0\n\np1\n\np6\n\np7", h.Source())
	require.Equal(t, Normal, e.Mode())
	require.Equal(t, Cursor{Block: 2}, e.Cursor())
	require.Nil(t, e.Status().Anchor)
	require.True(t, e.Register().Linewise)
}

func TestVisualDelete_ClampsWhenFewBlocksRemain(t *testing.T) {
	e, h := newEngine("p0\n\np1\n\np2\n\np3\n\np4\n\np5")
	e.JumpTo(2, 0)
	press(e, "v", "G", "d")
	require.Equal(t, "p0\n\np1", h.Source())
	require.Equal(t, Cursor{Block: 1}, e.Cursor())
}

func TestYank_RegisterHoldsOnlyLatest(t *testing.T) {
	e, h := newEngine("alpha **beta** gamma")
	press(e, "yw")
	require.Equal(t, Register{Text: "alpha"}, e.Register())
	press(e, "w", "yw")
	require.Equal(t, Register{Text: "**beta**"}, e.Register())
	require.Equal(t, "alpha **beta** gamma", h.Source())
	require.Zero(t, h.writes)
}

func TestDeleteLine_RemovesBlockAndSeparator(t *testing.T) {
	e, h := newEngine("# One\n\nTwo para\n\n- three")
	e.JumpTo(1, 0)
	press(e, "dd")
	require.Equal(t, "# One\n\n- three", h.Source())
	require.Equal(t, Register{Text: "Two para", Linewise: true}, e.Register())
	require.Equal(t, Cursor{Block: 1}, e.Cursor())
}

func TestYankLineAndPaste(t *testing.T) {
	e, h := newEngine("first\n\nsecond")
	press(e, "yy", "p")
	require.Equal(t, "first\n\nfirst\n\nsecond", h.Source())
	require.Equal(t, Cursor{Block: 1}, e.Cursor())

	press(e, "G", "P")
	require.Equal(t, "first\n\nfirst\n\nfirst\n\nsecond", h.Source())
}

func TestInsertRoundTrip_NoChange(t *testing.T) {
	e, h := newEngine("# Head\n\nbody text\n\n> quote")
	e.JumpTo(1, 1)
	press(e, "i")
	require.Equal(t, Insert, e.Mode())
	require.Len(t, h.inserts, 1)
	require.Equal(t, InsertTarget{Block: 1, Offset: strings.Index(h.Source(), "text")}, h.inserts[0])

	handled, _ := e.HandleKey(keyMsg("x"))
	require.False(t, handled)

	e.ExitInsert(2)
	require.Equal(t, Normal, e.Mode())
	require.Equal(t, Cursor{Block: 2}, e.Cursor())
	require.Equal(t, "# Head\n\nbody text\n\n> quote", h.Source())
	require.Zero(t, h.writes)
}

func TestInsertEntries(t *testing.T) {
	src := "- one two"
	cases := []struct {
		keys string
		want int
	}{
		{"i", 2},
		{"a", 5},
		{"I", 2},
		{"A", len(src)},
	}
	for _, tc := range cases {
		e, h := newEngine(src)
		press(e, tc.keys)
		require.Len(t, h.inserts, 1, tc.keys)
		require.Equal(t, tc.want, h.inserts[0].Offset, tc.keys)
		require.Equal(t, src, h.Source(), tc.keys)
	}
}

func TestOpenBelow_ContinuesList(t *testing.T) {
	e, h := newEngine("1. a\n2. b")
	press(e, "o")
	require.Equal(t, "1. a\n2. \n2. b", h.Source())
	require.Equal(t, InsertTarget{Block: 1, Offset: len("1. a\n2. ")}, h.inserts[0])
}

func TestOpenAbove_Paragraph(t *testing.T) {
	e, h := newEngine("# Title\n\nbody")
	e.JumpTo(1, 0)
	press(e, "O")
	require.Equal(t, "# Title\n\n\n\nbody", h.Source())
	require.Equal(t, len("# Title\n\n"), h.inserts[0].Offset)
}

func TestCommitLine_GrowsBlock(t *testing.T) {
	e, h := newEngine("para\n\nnext")
	press(e, "enter")
	require.Equal(t, "para\n\n\nnext", h.Source())
	require.Equal(t, InsertTarget{Block: 0, Offset: len("para\n")}, h.inserts[0])
}

func TestChangeWord_EntersInsertAtSeam(t *testing.T) {
	e, h := newEngine("one two three")
	e.JumpTo(0, 1)
	press(e, "cw")
	require.Equal(t, "one three", h.Source())
	require.Equal(t, Insert, e.Mode())
	require.Equal(t, InsertTarget{Block: 0, Offset: 4}, h.inserts[0])
	require.Equal(t, "two", e.Register().Text)
}

func TestChangeLine_KeepsMarker(t *testing.T) {
	e, h := newEngine("## Heading words\n\nbody")
	press(e, "cc")
	require.Equal(t, "## \n\nbody", h.Source())
	require.Equal(t, 3, h.inserts[0].Offset)
}

func TestDeleteToEndAndCounts(t *testing.T) {
	e, h := newEngine("one two three four five")
	e.JumpTo(0, 1)
	press(e, "2x")
	require.Equal(t, "one four five", h.Source())
	require.Equal(t, "two three", e.Register().Text)

	press(e, "D")
	require.Equal(t, "one", h.Source())
	require.Equal(t, Cursor{Block: 0, Word: 0}, e.Cursor())
}

func TestDeleteWordBackwardAndLineStart(t *testing.T) {
	e, h := newEngine("a b c d")
	e.JumpTo(0, 3)
	press(e, "db")
	require.Equal(t, "a b d", h.Source())

	e.JumpTo(0, 2)
	press(e, "d0")
	require.Equal(t, "d", h.Source())
}

func TestDeleteWithBlockMotions(t *testing.T) {
	e, h := newEngine("a\n\nb\n\nc\n\nd")
	e.JumpTo(1, 0)
	press(e, "dj")
	require.Equal(t, "a\n\nd", h.Source())

	press(e, "dk")
	require.Equal(t, "", h.Source())
}

func TestYankToDocumentEnds(t *testing.T) {
	e, h := newEngine("a\n\nb\n\nc")
	e.JumpTo(1, 0)
	press(e, "yG")
	require.Equal(t, Register{Text: "b\n\nc", Linewise: true}, e.Register())
	press(e, "ygg")
	require.Equal(t, Register{Text: "a\n\nb", Linewise: true}, e.Register())

	// document motions are yank only
	press(e, "dG")
	require.Equal(t, "a\n\nb\n\nc", h.Source())
	require.Equal(t, Normal, e.Mode())
}

func TestOperatorCancelledByOtherKey(t *testing.T) {
	e, h := newEngine("one two")
	press(e, "d")
	require.Equal(t, OperatorPending, e.Mode())
	require.Equal(t, OpDelete, e.Status().Operator)
	press(e, "z")
	require.Equal(t, Normal, e.Mode())
	require.Equal(t, OpNone, e.Status().Operator)
	require.Equal(t, "one two", h.Source())
}

func TestUndoRedoConsumedWithoutEffect(t *testing.T) {
	e, h := newEngine("one two")
	press(e, "x")
	require.Equal(t, "two", h.Source())

	handled, _ := e.HandleKey(keyMsg("u"))
	require.True(t, handled)
	require.Contains(t, e.Notice(), "undo")
	require.Empty(t, e.Notice())

	handled, _ = e.HandleKey(keyMsg("ctrl+r"))
	require.True(t, handled)
	require.Equal(t, "two", h.Source())
}

func TestGoToStartNeedsDoublePressInWindow(t *testing.T) {
	now := time.Unix(100, 0)
	e, _ := newEngine("a\n\nb\n\nc", WithClock(func() time.Time { return now }))

	press(e, "G")
	require.Equal(t, 2, e.Cursor().Block)

	press(e, "g")
	now = now.Add(time.Second)
	press(e, "g")
	require.Equal(t, 2, e.Cursor().Block)

	now = now.Add(100 * time.Millisecond)
	press(e, "g")
	require.Equal(t, 0, e.Cursor().Block)
}

func TestWordMotionsCrossBlocksAndClamp(t *testing.T) {
	e, _ := newEngine("a b\n\n---\n\nc")
	press(e, "w", "w")
	require.Equal(t, Cursor{Block: 1}, e.Cursor())
	press(e, "w")
	require.Equal(t, Cursor{Block: 2}, e.Cursor())
	press(e, "w")
	require.Equal(t, Cursor{Block: 2}, e.Cursor())
	press(e, "b", "b")
	require.Equal(t, Cursor{Block: 0, Word: 1}, e.Cursor())
	press(e, "$")
	require.Equal(t, Cursor{Block: 0, Word: 1}, e.Cursor())
	press(e, "0")
	require.Equal(t, Cursor{Block: 0, Word: 0}, e.Cursor())
	press(e, "10j")
	require.Equal(t, Cursor{Block: 2}, e.Cursor())
}

func TestPageSteps(t *testing.T) {
	var parts []string
	for i := 0; i < 30; i++ {
		parts = append(parts, "p")
	}
	e, _ := newEngine(strings.Join(parts, "\n\n"), WithPageSize(10))
	press(e, "ctrl+d")
	require.Equal(t, 5, e.Cursor().Block)
	press(e, "ctrl+f")
	require.Equal(t, 15, e.Cursor().Block)
	press(e, "ctrl+u")
	require.Equal(t, 10, e.Cursor().Block)
	press(e, "ctrl+b")
	require.Equal(t, 0, e.Cursor().Block)
}

func TestStatusIsDebounced(t *testing.T) {
	e, _ := newEngine("a b c d", WithDebounce(time.Millisecond))

	_, first := e.HandleKey(keyMsg("w"))
	_, second := e.HandleKey(keyMsg("w"))
	require.Equal(t, Cursor{Block: 0, Word: 2}, e.Cursor())
	require.Equal(t, Cursor{}, e.Status().Cursor)

	require.True(t, e.Update(first()))
	require.Equal(t, Cursor{}, e.Status().Cursor)

	require.True(t, e.Update(second()))
	require.Equal(t, Cursor{Block: 0, Word: 2}, e.Status().Cursor)

	require.False(t, e.Update(tea.WindowSizeMsg{}))
}

func TestModeChangesPublishImmediately(t *testing.T) {
	e, _ := newEngine("a\n\nb", WithDebounce(time.Hour))
	press(e, "v")
	require.Equal(t, Visual, e.Status().Mode)
	require.NotNil(t, e.Status().Anchor)
	require.Equal(t, 0, *e.Status().Anchor)
}

func TestOverlayTracksWord(t *testing.T) {
	ind := &recordingIndicator{}
	e, _ := newEngine("The *cat* sat", WithIndicator(ind))
	press(e, "w")
	require.True(t, ind.visible)
	require.Equal(t, render.Rect{X: 4, Y: 0, W: 3, H: 1}, ind.rect)

	press(e, "i")
	require.False(t, ind.visible)
}

func TestRefreshRemeasuresAfterRewrap(t *testing.T) {
	ind := &recordingIndicator{}
	e, h := newEngine("alpha beta gamma", WithIndicator(ind))
	e.JumpTo(0, 2)
	require.Equal(t, render.Rect{X: 11, Y: 0, W: 5, H: 1}, ind.rect)

	h.width = 8
	h.view = render.Render(h.source, h.width)
	e.Refresh()
	require.Equal(t, 0, ind.rect.X)
	require.Equal(t, 2, ind.rect.Y)
	require.Equal(t, Cursor{Block: 0, Word: 2}, e.Cursor())
}

func TestOverlayCoversVisualRange(t *testing.T) {
	ind := &recordingIndicator{}
	e, h := newEngine("a\n\nb\n\nc", WithIndicator(ind))
	press(e, "v", "j")
	require.Equal(t, render.Rect{X: 0, Y: 0, W: h.view.Width, H: 3}, ind.rect)
}

func TestClickPicksNearestWord(t *testing.T) {
	e, _ := newEngine("alpha beta\n\ngamma")
	e.Click(7, 0)
	require.Equal(t, Cursor{Block: 0, Word: 1}, e.Cursor())
	e.Click(1, 9)
	require.Equal(t, Cursor{Block: 1, Word: 0}, e.Cursor())
}

func TestSearchKeyOpensHostSearch(t *testing.T) {
	e, h := newEngine("a")
	press(e, "/")
	require.Equal(t, 1, h.searches)
}

func TestEnabledPersistsAcrossRestart(t *testing.T) {
	store := &memStore{enabled: true}
	h := newHost("one two")
	e := New(h, WithStore(store))
	require.True(t, e.Enabled())

	require.NoError(t, e.SetEnabled(false))
	handled, _ := e.HandleKey(keyMsg("x"))
	require.False(t, handled)
	require.Equal(t, "one two", h.Source())

	restarted := New(h, WithStore(store))
	require.False(t, restarted.Enabled())
	require.False(t, restarted.Status().Enabled)
	require.Equal(t, 1, store.saved)
}

func TestResetKeepsRegister(t *testing.T) {
	e, _ := newEngine("one two\n\nthree")
	press(e, "yw", "j", "v")
	e.Reset()
	require.Equal(t, Normal, e.Mode())
	require.Equal(t, Cursor{}, e.Cursor())
	require.Nil(t, e.Status().Anchor)
	require.Equal(t, "one", e.Register().Text)
}

func TestClipboardMirror(t *testing.T) {
	var got []string
	e, _ := newEngine("one two", WithClipboard(func(s string) error {
		got = append(got, s)
		return nil
	}))
	press(e, "yw", "w", "x")
	require.Equal(t, []string{"one", "two"}, got)
}

func TestStaleCursorIsClamped(t *testing.T) {
	e, h := newEngine("a b c\n\nd")
	e.JumpTo(1, 0)
	h.SetSource("a b c")
	press(e, "x")
	require.Equal(t, "b c", h.Source())
}
