// Package store persists application state as whole named collections and
// hosts the state service the UI layer drives.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Collection keys. Every write replaces the whole collection; there are no
// partial updates.
const (
	KeyFormats            = "formats"
	KeyActiveFormat       = "activeFormatId"
	KeyAccounts           = "accounts"
	KeyCostCenters        = "costCenters"
	KeyDefaultCostCenters = "defaultCostCenters"
)

// Store is the persistence collaborator: get/set/delete of whole named
// collections as opaque JSON values.
type Store interface {
	// Get unmarshals the value for key into into, reporting whether the
	// key exists.
	Get(key string, into any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
}

// FileStore keeps all collections in a single JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get implements Store.
func (s *FileStore) Get(key string, into any) (bool, error) {
	doc, err := s.read()
	if err != nil {
		return false, err
	}
	raw, ok := doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(key string, value any) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	doc[key] = raw
	return s.write(doc)
}

// Delete implements Store.
func (s *FileStore) Delete(key string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.write(doc)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing store: %w", err)
		}
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	values map[string]json.RawMessage
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]json.RawMessage)}
}

// Get implements Store.
func (s *MemStore) Get(key string, into any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *MemStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	s.values[key] = raw
	return nil
}

// Delete implements Store.
func (s *MemStore) Delete(key string) error {
	delete(s.values, key)
	return nil
}

// Keys returns the stored keys, sorted.
func (s *MemStore) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
