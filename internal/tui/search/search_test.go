package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	texts := []string{
		"Introduction",
		"The quick brown fox",
		"Install the package",
		"Nothing relevant here",
	}

	results := Rank("inst", texts)
	require.NotEmpty(t, results)
	require.Equal(t, 2, results[0].Block)

	results = Rank("quick", texts)
	require.Equal(t, 1, results[0].Block)
	require.Equal(t, 1000, results[0].Score)

	require.Empty(t, Rank("", texts))
	require.Empty(t, Rank("zzz", texts))
}

func TestRank_TiesKeepDocumentOrder(t *testing.T) {
	results := Rank("cat", []string{"a cat", "the cat", "dog"})
	require.Len(t, results, 2)
	require.Equal(t, 0, results[0].Block)
	require.Equal(t, 1, results[1].Block)
}

func TestState_Selection(t *testing.T) {
	var s State
	s.Update("o", []string{"one", "two", "three"})
	require.Len(t, s.Results, 2)

	first, ok := s.Current()
	require.True(t, ok)
	s.SelectNext()
	second, _ := s.Current()
	require.NotEqual(t, first.Block, second.Block)
	s.SelectNext()
	again, _ := s.Current()
	require.Equal(t, first, again)
	s.SelectPrev()
	back, _ := s.Current()
	require.Equal(t, second, back)

	s.Reset()
	_, ok = s.Current()
	require.False(t, ok)
}
