package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in a single JSON file, written atomically via a
// temp-file rename. It is the default backend when no Redis is configured.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	value, ok := blobs[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, err := s.readAll()
	if err != nil {
		// A broken file is overwritten rather than defended; the stored data
		// is a cache of conversational state, not a transactional record.
		blobs = map[string]json.RawMessage{}
	}
	blobs[key] = value

	data, err := json.Marshal(blobs)
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	blobs := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &blobs); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return blobs, nil
}
