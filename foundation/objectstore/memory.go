package objectstore

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store, used in tests and dry runs
type MemoryStore struct {
	mu        sync.RWMutex
	name      string
	exists    bool
	uploadErr error
	objects   map[string][]byte
}

// NewMemoryStore creates a MemoryStore. When exists is false the bucket behaves as missing
func NewMemoryStore(name string, exists bool) *MemoryStore {
	return &MemoryStore{
		name:    name,
		exists:  exists,
		objects: make(map[string][]byte),
	}
}

// FailUploads makes every following UploadFile call return err
func (m *MemoryStore) FailUploads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErr = err
}

// BucketName implements Store
func (m *MemoryStore) BucketName() string {
	return m.name
}

// BucketExists implements Store
func (m *MemoryStore) BucketExists(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exists, nil
}

// UploadFile implements Store, copying the file contents into memory
func (m *MemoryStore) UploadFile(_ context.Context, key string, localPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return fmt.Errorf("bucket %s does not exist", m.name)
	}
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

// Get returns the contents stored under key
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

// Keys lists stored keys in order
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
