package featurestore

import (
	"context"
	"fmt"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is used in tests and when no redis is configured.
type MemoryStore struct {
	mutex     sync.Mutex
	docs      map[string][]byte
	revisions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string][]byte),
		revisions: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return clone(s.docs[key]), nil
}

func (s *MemoryStore) Update(_ context.Context, keys []string, fn UpdateFunc) ([]int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	current := make([][]byte, len(keys))
	for i, key := range keys {
		current[i] = clone(s.docs[key])
	}

	docs, err := fn(current)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(keys) {
		return nil, fmt.Errorf("update returned %d documents for %d keys", len(docs), len(keys))
	}

	revisions := make([]int64, len(keys))
	for i, key := range keys {
		s.docs[key] = clone(docs[i])
		s.revisions[key]++
		revisions[i] = s.revisions[key]
	}
	return revisions, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
