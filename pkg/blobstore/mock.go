package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

var _ Store = (*MockStore)(nil)

// MockStore keeps uploaded content in memory and hands out fake URLs.
// Selected via STORAGE_PROVIDER=mock for local development and tests.
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string][]byte)}
}

// Upload keeps the content in memory and returns a mock URL
func (s *MockStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return fmt.Sprintf("https://storage.mock/%s", key), nil
}

// Delete forgets a stored object
func (s *MockStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// Len reports how many objects are currently stored
func (s *MockStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Deleted returns the keys removed so far, in order
func (s *MockStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
