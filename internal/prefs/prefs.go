// Package prefs is the small key-value capability behind the remembered
// session selection. Reads and writes are best-effort: failures never block
// the caller, they only lose the remembered value.
package prefs

import (
	"encoding/json"
	"os"
	"sync"
)

type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// FileStore keeps the values in a single json file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.read()
	v, ok := values[key]
	return v, ok
}

func (f *FileStore) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.read()
	values[key] = value
	data, err := json.Marshal(values)
	if err != nil {
		return
	}
	_ = os.WriteFile(f.path, data, 0o644)
}

func (f *FileStore) read() map[string]string {
	values := map[string]string{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]string{}
	}
	return values
}

// MemStore is for tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: map[string]string{}}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
