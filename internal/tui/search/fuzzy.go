// Package search ranks the blocks of a rendered document against a query.
package search

import (
	"sort"
	"strings"
	"unicode"
)

// Result is one block that matched a query
type Result struct {
	Block int
	Text  string
	Score int
}

// Rank scores every block text against query, best first. Ties keep
// document order. An empty query matches nothing.
func Rank(query string, texts []string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []Result
	for i, text := range texts {
		score := blockScore(query, strings.ToLower(text))
		if score > 0 {
			matches = append(matches, Result{Block: i, Text: text, Score: score})
		}
	}

	// Sort by score (highest first)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// blockScore is the best of the whole-text score and the score of any single
// word of the block
func blockScore(query, text string) int {
	best := calculateScore(query, text)
	if strings.Contains(text, query) {
		best = max(best, 600)
	}
	for _, word := range strings.Fields(text) {
		best = max(best, calculateScore(query, word))
	}
	return best
}

func calculateScore(query, text string) int {
	if len(text) == 0 {
		return 0
	}

	// Exact match gets highest score
	if query == text {
		return 1000
	}

	// Prefix match gets high score
	if strings.HasPrefix(text, query) {
		return 800 + max(0, 100-len(text)) // Prefer shorter matches
	}

	// Fuzzy matching
	q := []rune(query)
	score := 0
	queryIdx := 0
	lastMatchIdx := -1
	consecutiveMatches := 0
	var prev rune

	for textIdx, char := range []rune(text) {
		if queryIdx >= len(q) {
			break
		}

		if unicode.ToLower(char) == q[queryIdx] {
			score += 10

			// Bonus for consecutive matches
			if textIdx == lastMatchIdx+1 {
				consecutiveMatches++
				score += consecutiveMatches * 5
			} else {
				consecutiveMatches = 0
			}

			// Bonus for word boundary matches
			if textIdx == 0 || !unicode.IsLetter(prev) {
				score += 15
			}

			lastMatchIdx = textIdx
			queryIdx++
		}
		prev = char
	}

	// Must match all characters in query
	if queryIdx < len(q) {
		return 0
	}

	// Penalty for length difference
	lengthPenalty := len(text) - len(query)
	if lengthPenalty > 0 {
		score -= lengthPenalty
	}

	return max(score, 1)
}
