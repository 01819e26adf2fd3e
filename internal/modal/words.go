package modal

import (
	"regexp"
	"strings"

	"vellum/internal/render"
)

var wordPattern = regexp.MustCompile(`\S+`)

// Word is one maximal non-whitespace run of a block's visible text. Fragment
// and Start/End locate its first byte range; a word that crosses fragment
// boundaries ("**bold**text") keeps the remaining ranges in rest.
type Word struct {
	Text     string
	Fragment *render.Fragment
	Start    int
	End      int

	rest []fragmentRange
}

type fragmentRange struct {
	frag       *render.Fragment
	start, end int
}

// Rect measures the bounding rectangle of the word from the laid-out cells
// of its fragments. ok is false when no cell backs the word.
func (w Word) Rect() (render.Rect, bool) {
	var r render.Rect
	found := false
	add := func(f *render.Fragment, start, end int) {
		if f == nil {
			return
		}
		fr, ok := f.Rect(start, end)
		switch {
		case !ok:
		case found:
			r = r.Union(fr)
		default:
			r, found = fr, true
		}
	}
	add(w.Fragment, w.Start, w.End)
	for _, p := range w.rest {
		add(p.frag, p.start, p.end)
	}
	return r, found
}

type piece struct {
	frag       *render.Fragment
	start, end int // offsets into the joined line text
}

// Words splits the visible text of b into words in reading order. A word may
// cross fragment boundaries but never crosses a rendered line of a code
// block.
func Words(b *render.Block) []Word {
	if b == nil {
		return nil
	}
	var out []Word
	for _, line := range b.Lines() {
		var sb strings.Builder
		pieces := make([]piece, 0, len(line))
		for _, f := range line {
			start := sb.Len()
			sb.WriteString(f.Text())
			pieces = append(pieces, piece{frag: f, start: start, end: sb.Len()})
		}
		text := sb.String()
		for _, m := range wordPattern.FindAllStringIndex(text, -1) {
			w := Word{Text: text[m[0]:m[1]]}
			for _, p := range pieces {
				lo, hi := max(m[0], p.start), min(m[1], p.end)
				if lo >= hi {
					continue
				}
				if w.Fragment == nil {
					w.Fragment, w.Start, w.End = p.frag, lo-p.start, hi-p.start
					continue
				}
				w.rest = append(w.rest, fragmentRange{frag: p.frag, start: lo - p.start, end: hi - p.start})
			}
			out = append(out, w)
		}
	}
	return out
}

// rankOf returns how many words before index w share its text
func rankOf(words []Word, w int) int {
	rank := 0
	for i := 0; i < w; i++ {
		if words[i].Text == words[w].Text {
			rank++
		}
	}
	return rank
}
