// Package document holds the markdown sources open in the viewer.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"vellum/internal/logger"
)

// Document is one open markdown source
type Document struct {
	ID     uuid.UUID
	Path   string
	Name   string
	Source string
	// saved is the source as last read from or written to Path
	saved string
}

// New creates an unsaved document. An empty path means the document only
// lives in memory.
func New(path, source string) *Document {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	name := "untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	return &Document{ID: id, Path: path, Name: name, Source: source}
}

// Load reads the file at path. A file that does not exist yet opens as an
// empty document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("Opening new document %s", path)
			return New(path, ""), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := New(path, string(data))
	doc.saved = doc.Source
	logger.Info("Loaded document %s (%s, %d bytes)", path, doc.ID, len(data))
	return doc, nil
}

// Modified reports whether Source differs from what is on disk
func (d *Document) Modified() bool {
	return d.Source != d.saved
}

// Save writes Source to Path through a temp file and a rename
func (d *Document) Save() error {
	if d.Path == "" {
		return errors.New("document has no path")
	}
	tempFile := d.Path + ".tmp"
	if err := os.WriteFile(tempFile, []byte(d.Source), 0644); err != nil {
		logger.Error("Failed to write temp file %s: %v", tempFile, err)
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	if err := os.Rename(tempFile, d.Path); err != nil {
		logger.Error("Failed to rename temp file %s to %s: %v", tempFile, d.Path, err)
		return fmt.Errorf("failed to replace %s: %w", d.Path, err)
	}
	d.saved = d.Source
	logger.Info("Saved document %s", d.Path)
	return nil
}
