package journal

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"vellum/internal/logger"
)

func TestRecord(t *testing.T) {
	require.NoError(t, logger.Init(t.TempDir()))
	var buf bytes.Buffer
	logger.SetEditOutput(&buf)

	j := New()
	doc := uuid.New()
	before := "The *cat* sat on the cat mat"
	after := "The *cat* sat on the mat"

	entry, ok := j.Record(doc, "delete-word", before, after)
	require.True(t, ok)
	require.Equal(t, 4, entry.Deleted)
	require.Zero(t, entry.Inserted)
	require.Equal(t, 1, j.Count(doc))
	require.Zero(t, j.Count(uuid.New()))

	require.Contains(t, buf.String(), "[delete-word] document="+doc.String())
	require.Contains(t, buf.String(), "deleted=4")
	require.Contains(t, buf.String(), `patch="@@`)
}

func TestRecordUnchanged(t *testing.T) {
	j := New()
	doc := uuid.New()
	_, ok := j.Record(doc, "noop", "same", "same")
	require.False(t, ok)
	require.Zero(t, j.Count(doc))
}

func TestRebuildReplaysOnlyThatDocument(t *testing.T) {
	j := New()
	doc, other := uuid.New(), uuid.New()
	steps := []string{
		"The *cat* sat on the mat",
		"The *cat* sat on the mat today",
		"The sat on the mat today",
		"# Heading\n\nThe sat on the mat today",
	}
	for i := 1; i < len(steps); i++ {
		_, ok := j.Record(doc, "edit", steps[i-1], steps[i])
		require.True(t, ok)
		_, ok = j.Record(other, "edit", "x", "y")
		require.True(t, ok)
	}

	got, err := j.Rebuild(doc, steps[0])
	require.NoError(t, err)
	require.Equal(t, steps[len(steps)-1], got)

	got, err = j.Rebuild(uuid.New(), "untouched")
	require.NoError(t, err)
	require.Equal(t, "untouched", got)
}

func TestRebuildFromWrongBaseFails(t *testing.T) {
	j := New()
	doc := uuid.New()
	_, ok := j.Record(doc, "edit", "alpha beta gamma", "alpha gamma")
	require.True(t, ok)

	_, err := j.Rebuild(doc, "")
	require.Error(t, err)
}
