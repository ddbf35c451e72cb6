package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	applisting "github.com/hustle/backend/internal/application/listing"
)

// StubObjectStorage is an in-memory implementation of ObjectStorageService.
// Use this for development and tests until a real S3-compatible backend
// is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL used for public object URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// Ensure StubObjectStorage implements ObjectStorageService
var _ applisting.ObjectStorageService = (*StubObjectStorage)(nil)

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// PutObject stores the object in memory
func (s *StubObjectStorage) PutObject(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// DeleteObject removes the object. Deleting a missing key succeeds,
// matching S3 semantics.
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists checks if an object was previously stored
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// PublicURL returns a deterministic URL under the configured base
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = "https://storage.example.com"
	}
	return base + "/" + strings.TrimPrefix(storageKey, "/")
}
