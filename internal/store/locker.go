package store

import "sync"

// scopeLocker hands out one mutex per scope name so read-modify-write
// cycles on the same scope never interleave. Mutexes are never released;
// the set of scopes is small and bounded by the data model.
type scopeLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newScopeLocker() *scopeLocker {
	return &scopeLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *scopeLocker) lock(scope string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scope] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
