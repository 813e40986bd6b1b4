package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// Document is the on-disk layout of the JSON store
type Document struct {
	Version  int             `json:"version"`
	Settings models.Settings `json:"settings"`
	State    models.State    `json:"state"`
}

// JSONStore keeps settings and state in a single versioned JSON file
type JSONStore struct {
	path string
	mu   sync.Mutex
	doc  *Document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &Document{
		Version:  models.StateVersion,
		Settings: models.DefaultSettings(),
		State:    models.NewState(),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc, err := DecodeDocument(data)
	if errors.Is(err, ErrCorrupt) {
		return s.quarantine(err)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}

// quarantine moves an unreadable store aside and starts over from the defaults
func (s *JSONStore) quarantine(cause error) error {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		return fmt.Errorf("failed to move corrupt storage aside: %w", err)
	}
	logger.Warn("Storage file is unreadable, starting from an empty shop", "moved_to", aside, "error", cause)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &Document{
		Version:  models.StateVersion,
		Settings: models.DefaultSettings(),
		State:    models.NewState(),
	}
	return s.save()
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a sibling temp file and renames it over the store so a crash never leaves
// a truncated file behind. Callers hold mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) LoadState() (models.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.State{}, fmt.Errorf("storage not loaded")
	}
	return s.doc.State.Clone(), nil
}

func (s *JSONStore) SaveState(st models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.doc.State = st.Clone()
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
