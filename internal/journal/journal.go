// Package journal records every source mutation as a patch in the edit log.
package journal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"vellum/internal/logger"
)

// Entry is one recorded mutation
type Entry struct {
	Document uuid.UUID `json:"document"`
	Event    string    `json:"event"`
	Patch    string    `json:"patch"`
	Inserted int       `json:"inserted"`
	Deleted  int       `json:"deleted"`
}

// Journal diffs successive sources of a document
type Journal struct {
	mu      sync.Mutex
	dmp     *diffmatchpatch.DiffMatchPatch
	entries []Entry
}

func New() *Journal {
	return &Journal{dmp: diffmatchpatch.New()}
}

// Record diffs before against after and appends the patch to the edit log.
// Identical sources record nothing.
func (j *Journal) Record(doc uuid.UUID, event, before, after string) (Entry, bool) {
	if before == after {
		return Entry{}, false
	}
	diffs := j.dmp.DiffMain(before, after, false)
	diffs = j.dmp.DiffCleanupSemantic(diffs)

	entry := Entry{Document: doc, Event: event}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			entry.Inserted += len(d.Text)
		case diffmatchpatch.DiffDelete:
			entry.Deleted += len(d.Text)
		}
	}
	entry.Patch = j.dmp.PatchToText(j.dmp.PatchMake(before, diffs))

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()

	logger.Edit(event,
		logger.F("document", doc),
		logger.F("inserted", entry.Inserted),
		logger.F("deleted", entry.Deleted),
		logger.F("patch", entry.Patch),
	)
	return entry, true
}

// Count returns how many mutations have been recorded for doc
func (j *Journal) Count(doc uuid.UUID) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.entries {
		if e.Document == doc {
			n++
		}
	}
	return n
}

// Rebuild replays every patch recorded for doc, in order, over base. It
// reproduces the current source when base is the text the document was
// opened with.
func (j *Journal) Rebuild(doc uuid.UUID, base string) (string, error) {
	j.mu.Lock()
	entries := make([]Entry, 0, len(j.entries))
	for _, e := range j.entries {
		if e.Document == doc {
			entries = append(entries, e)
		}
	}
	j.mu.Unlock()

	out := base
	for i, e := range entries {
		next, err := j.apply(e, out)
		if err != nil {
			return out, fmt.Errorf("edit %d (%s): %w", i+1, e.Event, err)
		}
		out = next
	}
	return out, nil
}

// apply applies one recorded patch to source
func (j *Journal) apply(e Entry, source string) (string, error) {
	patches, err := j.dmp.PatchFromText(e.Patch)
	if err != nil {
		return source, fmt.Errorf("failed to parse patch: %w", err)
	}
	out, applied := j.dmp.PatchApply(patches, source)
	for i, ok := range applied {
		if !ok {
			return source, fmt.Errorf("hunk %d does not apply", i+1)
		}
	}
	return out, nil
}
