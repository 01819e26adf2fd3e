// Package settings persists the user preferences vellum loads at startup.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vellum/internal/logger"
)

// Settings are the persisted user preferences
type Settings struct {
	ModalEnabled    bool `json:"modal_enabled" jsonschema:"title=Modal mode,description=Start with vim-style modal navigation turned on"`
	SystemClipboard bool `json:"system_clipboard" jsonschema:"description=Mirror the yank register to the system clipboard"`
	DebounceMS      int  `json:"debounce_ms" jsonschema:"minimum=0,description=Idle time in milliseconds before cursor moves are published to the status bar"`
	GWindowMS       int  `json:"g_window_ms" jsonschema:"minimum=1,description=Maximum time in milliseconds between the two presses of gg"`
}

// Default returns the settings used when nothing has been stored yet
func Default() Settings {
	return Settings{
		ModalEnabled: true,
		DebounceMS:   50,
		GWindowMS:    300,
	}
}

func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

func (s Settings) GWindow() time.Duration {
	return time.Duration(s.GWindowMS) * time.Millisecond
}

// Store loads and saves Settings
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
	Close() error
}

// DefaultPath returns ~/.local/share/vellum/settings.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "vellum", "settings.json"), nil
}

// ModalFlag exposes the modal_enabled field of a Store as the engine's
// enabled-flag store
type ModalFlag struct {
	Store Store
}

func (f ModalFlag) LoadEnabled() (bool, error) {
	s, err := f.Store.Load()
	if err != nil {
		return Default().ModalEnabled, err
	}
	return s.ModalEnabled, nil
}

// SaveEnabled stores the flag, keeping the other settings. An unreadable
// store is overwritten with defaults so toggling repairs it.
func (f ModalFlag) SaveEnabled(enabled bool) error {
	s, err := f.Store.Load()
	if err != nil {
		logger.Warn("Settings unreadable, rewriting with defaults: %v", err)
		s = Default()
	}
	s.ModalEnabled = enabled
	return f.Store.Save(s)
}

// fields flattens s into key/value pairs for key-value backends
func fields(s Settings) map[string]string {
	return map[string]string{
		"modal_enabled":    strconv.FormatBool(s.ModalEnabled),
		"system_clipboard": strconv.FormatBool(s.SystemClipboard),
		"debounce_ms":      strconv.Itoa(s.DebounceMS),
		"g_window_ms":      strconv.Itoa(s.GWindowMS),
	}
}

// apply sets one flattened field on s. Unknown keys are ignored.
func apply(s *Settings, key, value string) error {
	var err error
	switch key {
	case "modal_enabled":
		s.ModalEnabled, err = strconv.ParseBool(value)
	case "system_clipboard":
		s.SystemClipboard, err = strconv.ParseBool(value)
	case "debounce_ms":
		s.DebounceMS, err = strconv.Atoi(value)
	case "g_window_ms":
		s.GWindowMS, err = strconv.Atoi(value)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}
