package storage

import (
	"encoding/json"
	"os"
	"sync"
)

// Keys for the values the storefront persists between runs.
const (
	GuestCartKey   = "guest_cart"
	CredentialsKey = "credentials"
)

// Storage is a small JSON-serialized key/value store. Get reports whether the
// key was present; a missing or unreadable value is absent, not an error.
type Storage interface {
	Get(key string, v interface{}) (bool, error)
	Set(key string, v interface{}) error
	Delete(key string) error
}

type fileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a Storage backed by a single JSON file at path.
func NewFile(path string) Storage {
	return &fileStorage{path: path}
}

func (s *fileStorage) Get(key string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.readAll()
	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		// Corrupt entry reads as absent.
		return false, nil
	}
	return true, nil
}

func (s *fileStorage) Set(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data := s.readAll()
	data[key] = raw
	return s.writeAll(data)
}

func (s *fileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.readAll()
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.writeAll(data)
}

// readAll treats a missing or unparsable file as empty.
func (s *fileStorage) readAll() map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]json.RawMessage{}
	}
	return out
}

func (s *fileStorage) writeAll(data map[string]json.RawMessage) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

type memStorage struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewMemory returns an in-memory Storage, used by tests and as a fallback.
func NewMemory() Storage {
	return &memStorage{data: map[string]json.RawMessage{}}
}

func (s *memStorage) Get(key string, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memStorage) Set(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *memStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
