package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a file-backed [Store] for hosts without Redis. The slot map
// is serialized as JSON and replaced atomically (temp file + rename), so a
// partially written session is never observable.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore persisting to path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path required")
	}
	return &FileStore{path: path}, nil
}

// Save replaces the persisted session with sess.
func (s *FileStore) Save(_ context.Context, sess *Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	slots := make(map[string]string)
	for slot, value := range sess.Slots() {
		if value != "" {
			slots[slot] = value
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(slots)
}

// Get returns the value of a single slot, or ErrNotFound when unset.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := slots[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Load rebuilds the persisted session.
func (s *FileStore) Load(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return nil, err
	}
	return fromSlots(slots)
}

// Clear removes the session file.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slots := make(map[string]string)
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return slots, nil
}

func (s *FileStore) write(slots map[string]string) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
