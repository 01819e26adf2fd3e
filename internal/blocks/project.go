// Package blocks derives the line-range blocks of a markdown source text.
//
// The segmentation rules here are the single source of truth for both the
// modal engine and the renderer, so rendered block i always corresponds to
// line range i of the same snapshot.
package blocks

import "strings"

// Range is an inclusive, zero-based line interval of the source text that
// renders as one block
type Range struct {
	Start int
	End   int
	Kind  Kind
}

// Lines splits source into lines the same way every consumer indexes them
func Lines(source string) []string {
	return strings.Split(source, "\n")
}

// FrontMatterEnd returns the index of the first line after a leading
// metadata header delimited by "---" lines, or 0 when there is none
func FrontMatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == "---" {
			return i + 1
		}
	}
	return 0
}

// Project returns the line ranges of every block in document order.
// Blank lines separate blocks and are never part of one.
func Project(source string) []Range {
	return ProjectLines(Lines(source))
}

// ProjectLines is Project over pre-split lines
func ProjectLines(lines []string) []Range {
	var out []Range

	i := FrontMatterEnd(lines)
	for i < len(lines) {
		line := strings.TrimRight(lines[i], "\r")
		if IsBlank(line) {
			i++
			continue
		}

		if c, run, ok := FenceOpen(line); ok {
			end := len(lines) - 1
			for j := i + 1; j < len(lines); j++ {
				if FenceClose(lines[j], c, run) {
					end = j
					break
				}
			}
			out = append(out, Range{Start: i, End: end, Kind: Code})
			i = end + 1
			continue
		}

		switch kind := Classify(line); kind {
		case Heading, Rule, ListItem, Quote:
			out = append(out, Range{Start: i, End: i, Kind: kind})
			i++
		default:
			end := i
			for end+1 < len(lines) {
				next := lines[end+1]
				if IsBlank(next) || OpensBlock(next) {
					break
				}
				end++
			}
			out = append(out, Range{Start: i, End: end, Kind: Paragraph})
			i = end + 1
		}
	}
	return out
}

// IndexOfLine returns the index of the range containing line, or of the
// nearest range above it; 0 when line precedes every block
func IndexOfLine(ranges []Range, line int) int {
	idx := 0
	for i, r := range ranges {
		if r.Start > line {
			break
		}
		idx = i
	}
	return idx
}

// LineOffset returns the byte offset of the start of line within source
func LineOffset(lines []string, line int) int {
	off := 0
	for i := 0; i < line && i < len(lines); i++ {
		off += len(lines[i]) + 1
	}
	return off
}
