package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vellum/internal/logger"
)

// FileStore keeps settings in a JSON file, replaced atomically on save
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates the parent directory of path if needed
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	logger.Info("Settings storage initialized: %s", path)
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

// Load reads the settings file. A missing file yields Default(), and keys
// absent from the file keep their default values.
func (s *FileStore) Load() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := Default()
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, fmt.Errorf("failed to open settings: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return Default(), fmt.Errorf("failed to decode settings %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) Save(data Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal settings: %v", err)
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Write to temp file first
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0600); err != nil {
		logger.Error("Failed to write temp file %s: %v", tempFile, err)
		return fmt.Errorf("failed to write settings: %w", err)
	}

	// Rename to actual file (atomic operation)
	if err := os.Rename(tempFile, s.path); err != nil {
		logger.Error("Failed to rename temp file %s to %s: %v", tempFile, s.path, err)
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	logger.Debug("Wrote settings file %s", s.path)
	return nil
}

func (s *FileStore) Close() error { return nil }
