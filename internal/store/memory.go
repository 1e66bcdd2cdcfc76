package store

import (
	"encoding/json"
	"sync"
)

// MemoryStore keeps scope documents in process memory. It backs tests
// and embedded use; semantics match FileStore exactly.
type MemoryStore struct {
	locker *scopeLocker

	mu   sync.RWMutex
	docs map[string]Doc
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locker: newScopeLocker(),
		docs:   make(map[string]Doc),
	}
}

// getDoc returns a copy so callers never observe concurrent mutation.
func (s *MemoryStore) getDoc(scope string) Doc {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[scope]
	if !ok {
		return Doc{}
	}
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) putDoc(scope string, doc Doc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[scope] = doc
}

func (s *MemoryStore) Get(scope, key string) (json.RawMessage, bool) {
	m := s.locker.lock(scope)
	defer m.Unlock()

	raw, ok := s.getDoc(scope)[key]
	return raw, ok
}

func (s *MemoryStore) Keys(scope string) []string {
	m := s.locker.lock(scope)
	defer m.Unlock()

	return s.getDoc(scope).Keys()
}

func (s *MemoryStore) Update(scope string, fn func(doc Doc) error) error {
	m := s.locker.lock(scope)
	defer m.Unlock()

	doc := s.getDoc(scope)
	if err := fn(doc); err != nil {
		return err
	}
	s.putDoc(scope, doc)
	return nil
}

func (s *MemoryStore) DeleteScope(scope string) error {
	m := s.locker.lock(scope)
	defer m.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, scope)
	return nil
}
