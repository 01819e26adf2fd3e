package modal

import (
	"strconv"
	"strings"
	"unicode"

	"vellum/internal/blocks"
	"vellum/internal/render"
)

// Edit is the outcome of one source mutation
type Edit struct {
	Source  string
	Removed string
	// Caret is the byte offset in Source where the edit landed
	Caret int
}

// region is the byte span of one source line that can hold visible words
type region struct {
	start, end int
}

// match is the source span of one rendered word together with the inline
// marker bytes around it on its line
type match struct {
	start, end  int
	lead, trail int
	reg         region
	// line indexes reg among the scan regions of the block
	line int
}

// core returns the span of the match without unbalanced markers
func (m match) core() (int, int) {
	from, to := m.start, m.end
	switch {
	case m.lead > m.trail:
		from += m.lead - m.trail
	case m.trail > m.lead:
		to -= m.trail - m.lead
	}
	return from, to
}

// cut returns the span to remove for the match. Balanced markers go with
// the word; an unbalanced leftover stays and is pulled against its
// neighbour so it keeps wrapping the remaining words.
func (m match) cut(source string) (int, int) {
	from, to := m.core()
	switch {
	case m.lead > m.trail:
		for to < m.reg.end && isBlankByte(source[to]) {
			to++
		}
	case m.trail > m.lead:
		for from > m.reg.start && isBlankByte(source[from-1]) {
			from--
		}
	}
	return from, to
}

func isBlankByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func isMarkerByte(c byte) bool {
	return c == '*' || c == '_' || c == '`' || c == '~'
}

func lineOffsets(lines []string) []int {
	out := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		out[i] = off
		off += len(l) + 1
	}
	return out
}

// contentLines returns the first and last line of r that hold visible text
func contentLines(lines []string, r blocks.Range) (int, int) {
	first, last := r.Start, min(r.End, len(lines)-1)
	if r.Kind == blocks.Code {
		c, run, _ := blocks.FenceOpen(strings.TrimRight(lines[r.Start], "\r"))
		first++
		if last >= first && blocks.FenceClose(lines[last], c, run) {
			last--
		}
	}
	return first, last
}

// scanRegions returns one region per content line of r, skipping block
// markers, fence lines and the closing hashes of a heading
func scanRegions(lines []string, r blocks.Range) []region {
	if r.Start < 0 || r.Start >= len(lines) {
		return nil
	}
	offs := lineOffsets(lines)
	first, last := contentLines(lines, r)
	var out []region
	for i := first; i <= last; i++ {
		line := lines[i]
		from, end := 0, len(strings.TrimRight(line, "\r"))
		switch r.Kind {
		case blocks.Code:
		case blocks.Heading:
			from, end = blocks.HeadingContent(line)
		default:
			from = min(blocks.ContentStart(line, r.Kind), end)
		}
		out = append(out, region{start: offs[i] + from, end: offs[i] + end})
	}
	return out
}

// token is one visible word of a block and the source span its characters
// come from
type token struct {
	text       string
	start, end int
	line       int
}

// blockTokens renders the scan regions of a block the way the renderer does
// and maps every visible word back to the source. Paragraph lines are joined
// with a space before parsing, so emphasis may run across them.
func blockTokens(source string, kind blocks.Kind, regs []region) []token {
	var out []token
	if kind == blocks.Code {
		for i, reg := range regs {
			text := source[reg.start:reg.end]
			for _, m := range wordPattern.FindAllStringIndex(text, -1) {
				out = append(out, token{text: text[m[0]:m[1]], start: reg.start + m[0], end: reg.start + m[1], line: i})
			}
		}
		return out
	}

	var joined strings.Builder
	var at, owner []int
	for i, reg := range regs {
		text := source[reg.start:reg.end]
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		from := reg.start + len(text) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
		if i > 0 {
			joined.WriteByte(' ')
			at = append(at, from)
			owner = append(owner, i)
		}
		joined.WriteString(trimmed)
		for k := range len(trimmed) {
			at = append(at, from+k)
			owner = append(owner, i)
		}
	}

	visible, src := render.Visible(joined.String())
	for _, m := range wordPattern.FindAllStringIndex(visible, -1) {
		first, last := src[m[0]], src[m[1]-1]
		out = append(out, token{text: visible[m[0]:m[1]], start: at[first], end: at[last] + 1, line: owner[first]})
	}
	return out
}

// tokenMatch widens a token over the marker bytes next to it on its line
func tokenMatch(source string, tk token, reg region, kind blocks.Kind) match {
	m := match{start: tk.start, end: tk.end, reg: reg, line: tk.line}
	if kind == blocks.Code {
		return m
	}
	first := tk.start
	if first > reg.start && source[first-1] == '\\' {
		// escape of the first visible character
		first--
	}
	m.start = first
	for m.start > reg.start && isMarkerByte(source[m.start-1]) {
		m.start--
	}
	for m.end < reg.end && isMarkerByte(source[m.end]) {
		m.end++
	}
	m.lead, m.trail = first-m.start, m.end-tk.end
	return m
}

// locate finds the source span of word w of a block whose lines are r. The
// block source is rendered again and the n-th visible word with the same
// text is taken, n being the occurrence rank of w among the rendered words.
func locate(source string, r blocks.Range, words []Word, w int) (match, bool) {
	if w < 0 || w >= len(words) {
		return match{}, false
	}
	want, rank := words[w].Text, rankOf(words, w)
	regs := scanRegions(blocks.Lines(source), r)
	seen := 0
	for _, tk := range blockTokens(source, r.Kind, regs) {
		if tk.text != want {
			continue
		}
		if seen == rank {
			return tokenMatch(source, tk, regs[tk.line], r.Kind), true
		}
		seen++
	}
	return match{}, false
}

// spliceOut removes [from, to) and collapses the whitespace seam so no
// double space or trailing whitespace is left on the line
func spliceOut(source string, from, to int, reg region) (string, int) {
	if from <= reg.start && to >= reg.end {
		// nothing visible is left on the line: drop what trails the region too
		for to < len(source) && source[to] != '\n' && source[to] != '\r' {
			to++
		}
		left := strings.TrimRight(source[:from], " \t")
		return left + source[to:], len(left)
	}
	left, right := source[:from], source[to:]
	switch {
	case from <= reg.start:
		right = strings.TrimLeft(right, " \t")
	case to >= reg.end || right == "" || right[0] == '\n' || right[0] == '\r':
		left = strings.TrimRight(left, " \t")
	case strings.HasSuffix(left, " ") || strings.HasSuffix(left, "\t"):
		right = strings.TrimLeft(right, " \t")
	}
	return left + right, len(left)
}

// removeWord cuts m out of source. An unbalanced marker that would be left
// alone at the edge of its line moves to the neighbouring line of the block,
// against the words it still wraps.
func removeWord(source string, m match, r blocks.Range) (string, int) {
	from, to := m.cut(source)
	reg := m.reg
	switch excess := m.lead - m.trail; {
	case excess > 0 && to >= reg.end:
		regs := scanRegions(blocks.Lines(source), r)
		if m.line+1 < len(regs) {
			next := regs[m.line+1].start
			source = source[:next] + source[m.start:m.start+excess] + source[next:]
			from = m.start
		}
	case excess < 0 && from <= reg.start && m.line > 0:
		regs := scanRegions(blocks.Lines(source), r)
		if m.line < len(regs) {
			mk := source[m.end+excess : m.end]
			prev := regs[m.line-1].end
			source = source[:prev] + mk + source[prev:]
			n := len(mk)
			from, to = from+n, m.end+n
			reg = region{start: reg.start + n, end: reg.end + n}
		}
	}
	return spliceOut(source, from, to, reg)
}

// dropBlankLine removes line li of paragraph r once a delete left it blank,
// so the paragraph is not split in two
func dropBlankLine(source string, caret int, r blocks.Range, li int) (string, int, blocks.Range) {
	lines := blocks.Lines(source)
	if r.End <= r.Start || li < r.Start || li > r.End || li >= len(lines) || !blocks.IsBlank(lines[li]) {
		return source, caret, r
	}
	lines = spliceLines(lines, li, li+1, nil)
	r.End--
	if li > r.End {
		caret = blocks.LineOffset(lines, li-1) + len(lines[li-1])
	} else {
		caret = blocks.LineOffset(lines, li)
	}
	return strings.Join(lines, "\n"), caret, r
}

// DeleteWord removes word w of block b from source
func DeleteWord(source string, view *render.View, b, w int) (Edit, bool) {
	return DeleteWordRange(source, view, b, w, w)
}

// DeleteWordRange removes words from..to of block b. Words are removed right
// to left so the occurrence ranks of the earlier ones stay valid.
func DeleteWordRange(source string, view *render.View, b, from, to int) (Edit, bool) {
	blk := view.Block(b)
	if blk == nil {
		return Edit{}, false
	}
	words := Words(blk)
	if from > to {
		from, to = to, from
	}
	from, to = max(from, 0), min(to, len(words)-1)
	if from > to {
		return Edit{}, false
	}

	r := blk.Source
	cur := source
	caret := -1
	var removed []string
	for k := to; k >= from; k-- {
		m, ok := locate(cur, r, words, k)
		if !ok {
			continue
		}
		cs, ce := m.core()
		removed = append(removed, cur[cs:ce])
		cur, caret = removeWord(cur, m, r)
		if r.Kind == blocks.Paragraph {
			cur, caret, r = dropBlankLine(cur, caret, r, r.Start+m.line)
		}
	}
	if caret < 0 {
		return Edit{}, false
	}
	for i, j := 0, len(removed)-1; i < j; i, j = i+1, j-1 {
		removed[i], removed[j] = removed[j], removed[i]
	}
	return Edit{Source: cur, Removed: strings.Join(removed, " "), Caret: caret}, true
}

// WordSpan returns the source span of word w of block b, markers included
func WordSpan(source string, view *render.View, b, w int) (int, int, bool) {
	blk := view.Block(b)
	if blk == nil {
		return 0, 0, false
	}
	m, ok := locate(source, blk.Source, Words(blk), w)
	if !ok {
		return 0, 0, false
	}
	return m.start, m.end, true
}

// WordRangeText returns the source text of words from..to of block b joined
// by single spaces, with unbalanced markers left out
func WordRangeText(source string, view *render.View, b, from, to int) (string, bool) {
	blk := view.Block(b)
	if blk == nil {
		return "", false
	}
	words := Words(blk)
	if from > to {
		from, to = to, from
	}
	var parts []string
	for k := max(from, 0); k <= min(to, len(words)-1); k++ {
		if m, ok := locate(source, blk.Source, words, k); ok {
			s, e := m.core()
			parts = append(parts, source[s:e])
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

// ContentBounds returns the offsets where the visible content of block b
// starts and ends in source
func ContentBounds(source string, view *render.View, b int) (int, int, bool) {
	blk := view.Block(b)
	if blk == nil {
		return 0, 0, false
	}
	regs := scanRegions(blocks.Lines(source), blk.Source)
	if len(regs) == 0 {
		// code block without interior lines: just after the opening fence
		lines := blocks.Lines(source)
		if blk.Source.Start >= len(lines) {
			return 0, 0, false
		}
		off := blocks.LineOffset(lines, blk.Source.Start) + len(lines[blk.Source.Start])
		return off, off, true
	}
	return regs[0].start, regs[len(regs)-1].end, true
}

// PasteAt inserts text next to word w of block b: after it with a separating
// space, or before it. A block without words receives the text at its end.
func PasteAt(source string, view *render.View, b, w int, text string, after bool) (Edit, bool) {
	blk := view.Block(b)
	if blk == nil || text == "" {
		return Edit{}, false
	}
	words := Words(blk)
	if len(words) == 0 {
		_, end, ok := ContentBounds(source, view, b)
		if !ok {
			return Edit{}, false
		}
		ins := text
		if end > 0 && !isBlankByte(source[end-1]) {
			ins = " " + text
		}
		return Edit{Source: source[:end] + ins + source[end:], Caret: end + len(ins)}, true
	}

	m, ok := locate(source, blk.Source, words, min(max(w, 0), len(words)-1))
	if !ok {
		return Edit{}, false
	}
	if after {
		ins := " " + text
		return Edit{Source: source[:m.end] + ins + source[m.end:], Caret: m.end + len(ins)}, true
	}
	ins := text + " "
	return Edit{Source: source[:m.start] + ins + source[m.start:], Caret: m.start + len(text)}, true
}

// PasteLines inserts text as its own block after or before block b
func PasteLines(source string, view *render.View, b int, text string, after bool) (Edit, bool) {
	text = strings.Trim(text, "\n")
	if text == "" {
		return Edit{}, false
	}
	lines := blocks.Lines(source)
	chunk := blocks.Lines(text)

	blk := view.Block(b)
	if blk == nil {
		if view.Len() > 0 {
			return Edit{}, false
		}
		if strings.TrimSpace(source) == "" {
			return Edit{Source: text, Caret: 0}, true
		}
		lines = append(lines, "")
		lines = append(lines, chunk...)
		return Edit{Source: strings.Join(lines, "\n"), Caret: blocks.LineOffset(lines, len(lines)-len(chunk))}, true
	}

	var ins []string
	var at, first int
	if after {
		at = min(blk.Source.End+1, len(lines))
		ins = append([]string{""}, chunk...)
		if at < len(lines) && !blocks.IsBlank(lines[at]) {
			ins = append(ins, "")
		}
		first = at + 1
	} else {
		at = blk.Source.Start
		if at > 0 && !blocks.IsBlank(lines[at-1]) {
			ins = append(ins, "")
		}
		first = at + len(ins)
		ins = append(ins, chunk...)
		ins = append(ins, "")
	}
	out := spliceLines(lines, at, at, ins)
	return Edit{Source: strings.Join(out, "\n"), Caret: blocks.LineOffset(out, first)}, true
}

// spliceLines replaces lines[from:to] with ins
func spliceLines(lines []string, from, to int, ins []string) []string {
	out := make([]string, 0, len(lines)-(to-from)+len(ins))
	out = append(out, lines[:from]...)
	out = append(out, ins...)
	out = append(out, lines[to:]...)
	return out
}

// normalizeVisible strips inline markers and collapses whitespace so source
// and rendered text can be compared
func normalizeVisible(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '`', '~', '\\':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// headMatches reports whether the source lines of r still look like blk
func headMatches(lines []string, r blocks.Range, blk *render.Block) bool {
	if r.Start < 0 || r.End >= len(lines) || r.Start > r.End {
		return false
	}
	head := strings.TrimRight(lines[r.Start], "\r")
	switch blk.Kind {
	case blocks.Rule:
		return blocks.IsRule(head)
	case blocks.Code:
		if _, _, ok := blocks.FenceOpen(head); !ok {
			return false
		}
		want := strings.SplitN(blk.Text(), "\n", 2)[0]
		if r.Start+1 > r.End {
			return want == ""
		}
		return normalizeVisible(lines[r.Start+1]) == normalizeVisible(want)
	}
	got := normalizeVisible(blocks.StripMarker(head))
	want := normalizeVisible(blk.Text())
	if got == "" || want == "" {
		return got == want
	}
	return wordPrefix(want, got) || wordPrefix(got, want)
}

// wordPrefix reports whether s starts with prefix and the prefix ends on a
// word boundary of s, so "block 1" is not a prefix of "block 10"
func wordPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix) && (len(s) == len(prefix) || s[len(prefix)] == ' ')
}

// blockLines finds the source line range of rendered block b. The projected
// range is used when its first line still matches the rendered text;
// otherwise the first projected range that matches is taken.
func blockLines(lines []string, view *render.View, b int) (int, int, bool) {
	blk := view.Block(b)
	if blk == nil {
		return 0, 0, false
	}
	if headMatches(lines, blk.Source, blk) {
		return blk.Source.Start, blk.Source.End, true
	}
	for _, r := range blocks.ProjectLines(lines) {
		if r.Kind == blk.Kind && headMatches(lines, r, blk) {
			return r.Start, r.End, true
		}
	}
	return 0, 0, false
}

// lineSpan is an inclusive source line interval
type lineSpan struct {
	start, end int
}

// blockSpans resolves the source lines of blocks lo..hi. It fails when any
// block cannot be found or two blocks resolve to overlapping lines.
func blockSpans(lines []string, view *render.View, lo, hi int) ([]lineSpan, bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	spans := make([]lineSpan, 0, hi-lo+1)
	for b := lo; b <= hi; b++ {
		start, end, ok := blockLines(lines, view, b)
		if !ok {
			return nil, false
		}
		if n := len(spans); n > 0 && start <= spans[n-1].end {
			return nil, false
		}
		spans = append(spans, lineSpan{start: start, end: end})
	}
	return spans, true
}

func spanText(lines []string, spans []lineSpan) string {
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, strings.Join(lines[s.start:s.end+1], "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// removeLines drops the span and one adjacent blank separator line,
// returning the new lines and the index the span used to start at
func removeLines(lines []string, s lineSpan) ([]string, int) {
	start, end := s.start, s.end
	switch {
	case end+1 < len(lines) && blocks.IsBlank(lines[end+1]):
		end++
	case start > blocks.FrontMatterEnd(lines) && blocks.IsBlank(lines[start-1]):
		start--
	}
	return spliceLines(lines, start, end+1, nil), start
}

// BlockText returns the source lines of blocks lo..hi, blocks separated by
// a blank line
func BlockText(source string, view *render.View, lo, hi int) (string, bool) {
	lines := blocks.Lines(source)
	spans, ok := blockSpans(lines, view, lo, hi)
	if !ok {
		return "", false
	}
	return spanText(lines, spans), true
}

// DeleteBlock removes the source lines of block b together with one adjacent
// blank separator line
func DeleteBlock(source string, view *render.View, b int) (Edit, bool) {
	return DeleteBlockRange(source, view, b, b)
}

// DeleteBlockRange removes blocks lo..hi right to left, each with one
// adjacent blank separator line
func DeleteBlockRange(source string, view *render.View, lo, hi int) (Edit, bool) {
	lines := blocks.Lines(source)
	spans, ok := blockSpans(lines, view, lo, hi)
	if !ok {
		return Edit{}, false
	}
	removed := spanText(lines, spans)

	out := lines
	at := 0
	for i := len(spans) - 1; i >= 0; i-- {
		out, at = removeLines(out, spans[i])
	}
	if len(out) == 0 {
		out = []string{""}
	}
	caret := blocks.LineOffset(out, min(at, len(out)-1))
	return Edit{Source: strings.Join(out, "\n"), Removed: removed, Caret: caret}, true
}

// blockPrefix returns the part of a block's first line that carries its
// marker, so a cleared or continued block keeps its kind
func blockPrefix(line string, kind blocks.Kind) string {
	switch kind {
	case blocks.Heading, blocks.Quote:
		return line[:blocks.ContentStart(line, kind)]
	case blocks.ListItem:
		end := blocks.ListMarkerEnd(line)
		if end < 0 {
			return ""
		}
		p := strings.TrimRight(line[:end], " \t")
		return p + " "
	}
	return ""
}

// nextListMarker continues the marker of a list item line: bullets repeat,
// ordered items count up
func nextListMarker(line string) string {
	p := blockPrefix(line, blocks.ListItem)
	trimmed := strings.TrimLeft(p, " \t")
	indent := p[:len(p)-len(trimmed)]
	marker := strings.TrimSpace(trimmed)
	if marker == "" {
		return p
	}
	delim := marker[len(marker)-1]
	if delim == '.' || delim == ')' {
		if n, err := strconv.Atoi(marker[:len(marker)-1]); err == nil {
			return indent + strconv.Itoa(n+1) + string(delim) + " "
		}
	}
	return p
}

// ClearBlock replaces the content of block b with an empty line that keeps
// the block's marker, for change operations
func ClearBlock(source string, view *render.View, b int) (Edit, bool) {
	return ClearBlockRange(source, view, b, b)
}

// ClearBlockRange removes blocks hi..lo+1 and clears block lo, leaving the
// caret on the cleared line
func ClearBlockRange(source string, view *render.View, lo, hi int) (Edit, bool) {
	if lo > hi {
		lo, hi = hi, lo
	}
	lines := blocks.Lines(source)
	spans, ok := blockSpans(lines, view, lo, hi)
	if !ok {
		return Edit{}, false
	}
	removed := spanText(lines, spans)
	out := lines
	for i := len(spans) - 1; i > 0; i-- {
		out, _ = removeLines(out, spans[i])
	}

	start, end := spans[0].start, spans[0].end
	var ins []string
	caretLine, caretCol := start, 0
	switch blk := view.Block(lo); blk.Kind {
	case blocks.Code:
		open := out[start]
		c, run, _ := blocks.FenceOpen(strings.TrimRight(open, "\r"))
		closing := strings.Repeat(string(c), run)
		if end > start && blocks.FenceClose(out[end], c, run) {
			closing = out[end]
		}
		ins = []string{open, "", closing}
		caretLine = start + 1
	default:
		p := blockPrefix(out[start], blk.Kind)
		ins = []string{p}
		caretCol = len(p)
	}
	out = spliceLines(out, start, end+1, ins)
	return Edit{
		Source:  strings.Join(out, "\n"),
		Removed: removed,
		Caret:   blocks.LineOffset(out, caretLine) + caretCol,
	}, true
}

// OpenLine adds an empty line next to block b for typing. List items get a
// continued marker directly below or above; code blocks open a line inside
// the fence; every other block gets a new paragraph line, separated by a
// blank line unless joined is set.
func OpenLine(source string, view *render.View, b int, below, joined bool) (Edit, bool) {
	lines := blocks.Lines(source)
	blk := view.Block(b)
	if blk == nil {
		if view.Len() > 0 {
			return Edit{}, false
		}
		return Edit{Source: source, Caret: len(source)}, true
	}
	start, end, ok := blockLines(lines, view, b)
	if !ok {
		return Edit{}, false
	}

	var ins []string
	var at, caretLine, caretCol int
	switch blk.Kind {
	case blocks.ListItem:
		p := nextListMarker(lines[start])
		if !below {
			p = blockPrefix(lines[start], blocks.ListItem)
		}
		ins = []string{p}
		at = start
		if below {
			at = end + 1
		}
		caretLine, caretCol = at, len(p)
	case blocks.Code:
		first, last := contentLines(lines, blocks.Range{Start: start, End: end, Kind: blocks.Code})
		ins = []string{""}
		if below {
			at = last + 1
		} else {
			at = first
		}
		caretLine = at
	default:
		if below {
			at = end + 1
			if joined {
				ins = []string{""}
				caretLine = at
			} else {
				ins = []string{"", ""}
				caretLine = at + 1
				if at < len(lines) && !blocks.IsBlank(lines[at]) {
					ins = append(ins, "")
				}
			}
		} else {
			at = start
			if at > 0 && !blocks.IsBlank(lines[at-1]) {
				ins = append(ins, "")
			}
			caretLine = at + len(ins)
			ins = append(ins, "", "")
		}
	}
	out := spliceLines(lines, at, at, ins)
	return Edit{Source: strings.Join(out, "\n"), Caret: blocks.LineOffset(out, caretLine) + caretCol}, true
}
